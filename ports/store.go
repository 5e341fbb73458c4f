package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/flashnodes/flashnodes/core"
)

// IdentityRepository persists wallet identities and their outstanding nonces.
type IdentityRepository interface {
	// GetByAddress returns the identity for a canonical address, or
	// core.ErrUnknownIdentity.
	GetByAddress(ctx context.Context, address string) (*core.Identity, error)

	// Create upserts an identity with the given nonce. Racing creates for
	// the same address never fail; the last nonce written wins.
	Create(ctx context.Context, address, nonce string) (*core.Identity, error)

	// SetNonce unconditionally overwrites the outstanding nonce,
	// discarding any previous challenge.
	SetNonce(ctx context.Context, address, nonce string) error

	// RotateNonce atomically replaces oldNonce with newNonce. It fails with
	// core.ErrSignatureMismatch when the stored nonce no longer equals
	// oldNonce, which makes concurrent verifications succeed at most once.
	RotateNonce(ctx context.Context, address, oldNonce, newNonce string) error

	// SetAdmin flips the administrative capability flag.
	SetAdmin(ctx context.Context, address string, admin bool) error

	// ListAdmins returns all administrative identities.
	ListAdmins(ctx context.Context) ([]core.Identity, error)
}

// ProjectRepository persists provisioned node projects.
type ProjectRepository interface {
	Create(ctx context.Context, p *core.Project) (*core.Project, error)

	// GetByNodeID returns a project scoped to an owner.
	GetByNodeID(ctx context.Context, nodeID uuid.UUID, ownerID int64) (*core.Project, error)

	// GetByNodeIDAny returns a project regardless of owner (administrative).
	GetByNodeIDAny(ctx context.Context, nodeID uuid.UUID) (*core.Project, error)

	// ListByOwner returns the owner's projects; limit 0 means no limit.
	ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]core.Project, error)

	// ListAll returns all projects, most recently created first.
	ListAll(ctx context.Context, limit, offset int) ([]core.Project, error)

	// ListByAddress returns all projects owned by the given address.
	ListByAddress(ctx context.Context, address string) ([]core.Project, error)

	// Count returns the total number of projects.
	Count(ctx context.Context) (int64, error)

	// Update applies a partial update and returns the updated project.
	Update(ctx context.Context, nodeID uuid.UUID, changes core.ProjectUpdate) (*core.Project, error)

	// Delete hard-removes a project; ownerID 0 skips the ownership check.
	Delete(ctx context.Context, nodeID uuid.UUID, ownerID int64) error

	// APIKeyByNodeID returns the metrics api key for an owner's project.
	APIKeyByNodeID(ctx context.Context, nodeID uuid.UUID, ownerID int64) (uuid.UUID, error)

	// APIKeysByOwner returns the metrics api keys of all the owner's projects.
	APIKeysByOwner(ctx context.Context, ownerID int64) ([]uuid.UUID, error)
}

// CurrencyRepository persists currency reference data.
type CurrencyRepository interface {
	Create(ctx context.Context, c *core.Currency) (*core.Currency, error)
	GetByID(ctx context.Context, id int64) (*core.Currency, error)
	GetBySymbol(ctx context.Context, symbol string) (*core.Currency, error)
	List(ctx context.Context) ([]core.Currency, error)
	Update(ctx context.Context, id int64, c *core.Currency) (*core.Currency, error)
	Delete(ctx context.Context, id int64) error
}
