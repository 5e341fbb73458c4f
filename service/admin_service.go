package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/flashnodes/flashnodes/core"
	"github.com/flashnodes/flashnodes/internal/eth"
	"github.com/flashnodes/flashnodes/ports"
)

// AdminService manages the administrator roster.
type AdminService struct {
	identities ports.IdentityRepository
	logger     *zap.Logger
}

// NewAdminService creates a new administrator roster service.
func NewAdminService(identities ports.IdentityRepository, logger *zap.Logger) *AdminService {
	return &AdminService{identities: identities, logger: logger}
}

// ListAdmins returns every administrator identity.
func (s *AdminService) ListAdmins(ctx context.Context) ([]core.Identity, error) {
	return s.identities.ListAdmins(ctx)
}

// Promote grants the identity behind the address administrator privilege.
func (s *AdminService) Promote(ctx context.Context, address string) (*core.Identity, error) {
	ident, err := s.lookup(ctx, address)
	if err != nil {
		return nil, err
	}
	if ident.IsAdmin {
		return nil, core.ErrAlreadyAdmin
	}
	if err := s.identities.SetAdmin(ctx, ident.Address, true); err != nil {
		return nil, err
	}
	ident.IsAdmin = true
	return ident, nil
}

// Demote revokes administrator privilege. The first identity ever created
// is the primordial administrator and can never be demoted.
func (s *AdminService) Demote(ctx context.Context, address string) (*core.Identity, error) {
	ident, err := s.lookup(ctx, address)
	if err != nil {
		return nil, err
	}
	if !ident.IsAdmin {
		return nil, core.ErrNotAdmin
	}
	if ident.ID == core.PrimordialAdminID {
		return nil, core.ErrPrimordialAdmin
	}
	if err := s.identities.SetAdmin(ctx, ident.Address, false); err != nil {
		return nil, err
	}
	ident.IsAdmin = false
	return ident, nil
}

// Seed ensures the configured address exists and holds administrator
// privilege. It runs at startup and is idempotent.
func (s *AdminService) Seed(ctx context.Context, address string) error {
	if address == "" {
		return nil
	}
	canonical, err := eth.ValidateAddress(address)
	if err != nil {
		return err
	}

	ident, err := s.identities.GetByAddress(ctx, canonical)
	if errors.Is(err, core.ErrUnknownIdentity) {
		nonce, nerr := generateNonce()
		if nerr != nil {
			return nerr
		}
		if ident, err = s.identities.Create(ctx, canonical, nonce); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if ident.IsAdmin {
		return nil
	}
	if err := s.identities.SetAdmin(ctx, canonical, true); err != nil {
		return err
	}
	s.logger.Info("seeded administrator", zap.String("address", canonical))
	return nil
}

func (s *AdminService) lookup(ctx context.Context, address string) (*core.Identity, error) {
	return s.identities.GetByAddress(ctx, strings.ToLower(address))
}
