// Package denylist provides revocation stores for session credentials.
package denylist

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flashnodes/flashnodes/ports"
)

// RedisDenyList is a Redis implementation of the DenyList interface
type RedisDenyList struct {
	client *redis.Client
	prefix string
}

// NewRedisDenyList creates a new Redis deny list
func NewRedisDenyList(client *redis.Client) ports.DenyList {
	return &RedisDenyList{
		client: client,
		prefix: "flashnodes:denied:",
	}
}

// Deny marks a credential as revoked in Redis until its expiry
func (s *RedisDenyList) Deny(ctx context.Context, credentialID string, ttl time.Duration) error {
	key := s.prefix + credentialID

	if err := s.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to deny credential: %w", err)
	}

	return nil
}

// IsDenied checks if a credential is revoked in Redis
func (s *RedisDenyList) IsDenied(ctx context.Context, credentialID string) (bool, error) {
	key := s.prefix + credentialID

	val, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check credential revocation: %w", err)
	}

	return val > 0, nil
}
