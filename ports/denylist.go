package ports

import (
	"context"
	"time"
)

// DenyList records revoked credential ids until their natural expiry.
// Credentials are stateless; this is the explicit revocation collaborator
// consulted on validation so logout takes effect before the TTL runs out.
type DenyList interface {
	// Deny marks a credential id as revoked for the given duration.
	Deny(ctx context.Context, credentialID string, ttl time.Duration) error

	// IsDenied reports whether a credential id has been revoked.
	IsDenied(ctx context.Context, credentialID string) (bool, error)
}
