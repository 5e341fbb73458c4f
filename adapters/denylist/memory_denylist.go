package denylist

import (
	"context"
	"sync"
	"time"

	"github.com/flashnodes/flashnodes/ports"
)

// MemoryDenyList is an in-memory implementation of the DenyList interface,
// used in tests and single-instance deployments without Redis.
type MemoryDenyList struct {
	denied map[string]time.Time
	mu     sync.RWMutex
}

// NewMemoryDenyList creates a new in-memory deny list
func NewMemoryDenyList() ports.DenyList {
	return &MemoryDenyList{
		denied: make(map[string]time.Time),
	}
}

// Deny marks a credential as revoked until its expiry
func (s *MemoryDenyList) Deny(ctx context.Context, credentialID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.denied[credentialID] = time.Now().Add(ttl)
	return nil
}

// IsDenied checks if a credential is revoked
func (s *MemoryDenyList) IsDenied(ctx context.Context, credentialID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expiry, exists := s.denied[credentialID]
	if !exists {
		return false, nil
	}

	// Entries past their expiry no longer matter; the credential itself
	// has expired by then.
	if time.Now().After(expiry) {
		return false, nil
	}

	return true, nil
}
