// Package service contains the business logic behind the HTTP surface.
package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/flashnodes/flashnodes/core"
	"github.com/flashnodes/flashnodes/internal/eth"
	"github.com/flashnodes/flashnodes/ports"
)

// DefaultAccessTTL bounds session credentials when no TTL is configured.
const DefaultAccessTTL = time.Hour

// AuthService implements the wallet challenge-response protocol and
// session credential handling.
type AuthService struct {
	identities ports.IdentityRepository
	tokenizer  ports.Tokenizer
	denylist   ports.DenyList
	events     ports.EventPublisher
	logger     *zap.Logger
	accessTTL  time.Duration
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	identities ports.IdentityRepository,
	tokenizer ports.Tokenizer,
	denylist ports.DenyList,
	events ports.EventPublisher,
	logger *zap.Logger,
	accessTTL time.Duration,
) *AuthService {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	return &AuthService{
		identities: identities,
		tokenizer:  tokenizer,
		denylist:   denylist,
		events:     events,
		logger:     logger,
		accessTTL:  accessTTL,
	}
}

// RequestChallenge issues a fresh single-use nonce for the address,
// creating the identity on first contact. Any previously outstanding nonce
// is discarded: at most one challenge is valid per address at any time, so
// a signature over a stale nonce can never verify.
func (s *AuthService) RequestChallenge(ctx context.Context, address string) (string, string, error) {
	canonical, err := eth.ValidateAddress(address)
	if err != nil {
		return "", "", err
	}

	nonce, err := generateNonce()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	if _, err := s.identities.GetByAddress(ctx, canonical); err != nil {
		if !errors.Is(err, core.ErrUnknownIdentity) {
			return "", "", err
		}
		if _, err := s.identities.Create(ctx, canonical, nonce); err != nil {
			return "", "", fmt.Errorf("failed to create identity: %w", err)
		}
		return canonical, nonce, nil
	}

	if err := s.identities.SetNonce(ctx, canonical, nonce); err != nil {
		return "", "", fmt.Errorf("failed to store nonce: %w", err)
	}
	return canonical, nonce, nil
}

// Login verifies a signature over the outstanding nonce and, on success,
// rotates the nonce and issues a session credential. The rotation is an
// atomic compare-and-swap on the stored nonce, so concurrent verifications
// of the same challenge succeed at most once.
func (s *AuthService) Login(ctx context.Context, address, signature string) (string, string, error) {
	canonical, err := eth.ValidateAddress(address)
	if err != nil {
		return "", "", err
	}

	identity, err := s.identities.GetByAddress(ctx, canonical)
	if err != nil {
		return "", "", err
	}

	recovered, err := eth.RecoverSigner(identity.Nonce, signature)
	if err != nil {
		return "", "", err
	}
	if recovered != canonical {
		return "", "", core.ErrSignatureMismatch
	}

	newNonce, err := generateNonce()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	if err := s.identities.RotateNonce(ctx, canonical, identity.Nonce, newNonce); err != nil {
		return "", "", err
	}

	token, err := s.tokenizer.Issue(identity, s.accessTTL)
	if err != nil {
		return "", "", fmt.Errorf("failed to issue credential: %w", err)
	}

	if err := s.events.PublishLogin(ctx, canonical); err != nil {
		s.logger.Warn("failed to publish login event", zap.Error(err))
	}

	return token, newNonce, nil
}

// Authenticate validates a credential, consults the deny-list, and
// resolves the backing identity.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*core.Identity, *core.Credential, error) {
	cred, err := s.tokenizer.Validate(token)
	if err != nil {
		return nil, nil, err
	}

	denied, err := s.denylist.IsDenied(ctx, cred.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check credential revocation: %w", err)
	}
	if denied {
		return nil, nil, core.ErrCredentialRevoked
	}

	identity, err := s.identities.GetByAddress(ctx, cred.Address)
	if err != nil {
		// A valid token for an identity that no longer exists is a bad
		// credential; anything else is a storage failure.
		if errors.Is(err, core.ErrUnknownIdentity) {
			return nil, nil, core.ErrCredentialInvalid
		}
		return nil, nil, err
	}
	return identity, cred, nil
}

// Logout revokes a credential for the remainder of its lifetime.
func (s *AuthService) Logout(ctx context.Context, cred *core.Credential) error {
	ttl := time.Until(cred.ExpiresAt)
	if ttl <= 0 {
		// Keep a short denial window even for expired credentials in case
		// of clock skew between instances.
		ttl = time.Hour
	}
	if err := s.denylist.Deny(ctx, cred.ID, ttl); err != nil {
		return fmt.Errorf("failed to revoke credential: %w", err)
	}
	return nil
}

// AccessTTL returns the configured credential lifetime.
func (s *AuthService) AccessTTL() time.Duration { return s.accessTTL }

// generateNonce returns a URL-safe random challenge with 256 bits of entropy.
func generateNonce() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
