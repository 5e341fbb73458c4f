// Package memory provides in-memory repository implementations, primarily
// for tests and local development without PostgreSQL.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flashnodes/flashnodes/core"
)

// Store holds all records behind one lock so the repository views can
// resolve cross-entity joins the way the SQL layer does.
type Store struct {
	mu sync.Mutex

	identities     map[string]*core.Identity
	nextIdentityID int64

	currencies     map[int64]*core.Currency
	nextCurrencyID int64

	projects      []*core.Project
	nextProjectID int64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		identities: make(map[string]*core.Identity),
		currencies: make(map[int64]*core.Currency),
	}
}

// Identities returns the identity repository view.
func (s *Store) Identities() *IdentityRepo { return &IdentityRepo{s: s} }

// Projects returns the project repository view.
func (s *Store) Projects() *ProjectRepo { return &ProjectRepo{s: s} }

// Currencies returns the currency repository view.
func (s *Store) Currencies() *CurrencyRepo { return &CurrencyRepo{s: s} }

// IdentityRepo is the in-memory IdentityRepository.
type IdentityRepo struct{ s *Store }

func (r *IdentityRepo) GetByAddress(ctx context.Context, address string) (*core.Identity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ident, ok := r.s.identities[address]
	if !ok {
		return nil, core.ErrUnknownIdentity
	}
	copied := *ident
	return &copied, nil
}

func (r *IdentityRepo) Create(ctx context.Context, address, nonce string) (*core.Identity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// Upsert: a concurrent first contact overwrites the nonce.
	if existing, ok := r.s.identities[address]; ok {
		existing.Nonce = nonce
		copied := *existing
		return &copied, nil
	}

	r.s.nextIdentityID++
	ident := &core.Identity{
		ID:        r.s.nextIdentityID,
		Address:   address,
		Nonce:     nonce,
		CreatedAt: time.Now(),
	}
	r.s.identities[address] = ident
	copied := *ident
	return &copied, nil
}

func (r *IdentityRepo) SetNonce(ctx context.Context, address, nonce string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ident, ok := r.s.identities[address]
	if !ok {
		return core.ErrUnknownIdentity
	}
	ident.Nonce = nonce
	return nil
}

func (r *IdentityRepo) RotateNonce(ctx context.Context, address, oldNonce, newNonce string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ident, ok := r.s.identities[address]
	if !ok || ident.Nonce != oldNonce {
		return core.ErrSignatureMismatch
	}
	ident.Nonce = newNonce
	return nil
}

func (r *IdentityRepo) SetAdmin(ctx context.Context, address string, admin bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ident, ok := r.s.identities[address]
	if !ok {
		return core.ErrUnknownIdentity
	}
	ident.IsAdmin = admin
	return nil
}

func (r *IdentityRepo) ListAdmins(ctx context.Context) ([]core.Identity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var admins []core.Identity
	for _, ident := range r.s.identities {
		if ident.IsAdmin {
			admins = append(admins, *ident)
		}
	}
	sort.Slice(admins, func(i, j int) bool { return admins[i].ID < admins[j].ID })
	return admins, nil
}

// CurrencyRepo is the in-memory CurrencyRepository.
type CurrencyRepo struct{ s *Store }

func (r *CurrencyRepo) Create(ctx context.Context, c *core.Currency) (*core.Currency, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.currencies {
		if existing.Symbol == c.Symbol {
			return nil, core.ErrSymbolExists
		}
	}
	r.s.nextCurrencyID++
	stored := *c
	stored.ID = r.s.nextCurrencyID
	r.s.currencies[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *CurrencyRepo) GetByID(ctx context.Context, id int64) (*core.Currency, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.currencies[id]
	if !ok {
		return nil, core.ErrUnknownCurrency
	}
	copied := *c
	return &copied, nil
}

func (r *CurrencyRepo) GetBySymbol(ctx context.Context, symbol string) (*core.Currency, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.currencies {
		if c.Symbol == symbol {
			copied := *c
			return &copied, nil
		}
	}
	return nil, core.ErrUnknownCurrency
}

func (r *CurrencyRepo) List(ctx context.Context) ([]core.Currency, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var currencies []core.Currency
	for _, c := range r.s.currencies {
		currencies = append(currencies, *c)
	}
	sort.Slice(currencies, func(i, j int) bool { return currencies[i].ID < currencies[j].ID })
	return currencies, nil
}

func (r *CurrencyRepo) Update(ctx context.Context, id int64, c *core.Currency) (*core.Currency, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.currencies[id]
	if !ok {
		return nil, core.ErrUnknownCurrency
	}
	for otherID, other := range r.s.currencies {
		if otherID != id && other.Symbol == c.Symbol {
			return nil, core.ErrSymbolExists
		}
	}
	existing.Symbol = c.Symbol
	existing.FullName = c.FullName
	existing.Details = c.Details
	copied := *existing
	return &copied, nil
}

func (r *CurrencyRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.currencies[id]
	if !ok {
		return core.ErrUnknownCurrency
	}
	for _, p := range r.s.projects {
		if p.CurrencySymbol == c.Symbol {
			return core.ErrCurrencyInUse
		}
	}
	delete(r.s.currencies, id)
	return nil
}

// ProjectRepo is the in-memory ProjectRepository.
type ProjectRepo struct{ s *Store }

// joined returns a copy of p with the currency name and owner address
// resolved, mirroring the SQL joins.
func (r *ProjectRepo) joined(p *core.Project) core.Project {
	copied := *p
	for _, c := range r.s.currencies {
		if c.Symbol == p.CurrencySymbol {
			copied.CurrencyName = c.FullName
			break
		}
	}
	for _, ident := range r.s.identities {
		if ident.ID == p.OwnerID {
			copied.OwnerAddress = ident.Address
			break
		}
	}
	return copied
}

func (r *ProjectRepo) Create(ctx context.Context, p *core.Project) (*core.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextProjectID++
	stored := *p
	stored.ID = r.s.nextProjectID
	stored.CreatedOn = time.Now()
	r.s.projects = append(r.s.projects, &stored)
	copied := r.joined(&stored)
	return &copied, nil
}

func (r *ProjectRepo) GetByNodeID(ctx context.Context, nodeID uuid.UUID, ownerID int64) (*core.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.projects {
		if p.NodeID == nodeID && p.OwnerID == ownerID {
			copied := r.joined(p)
			return &copied, nil
		}
	}
	return nil, core.ErrProjectNotFound
}

func (r *ProjectRepo) GetByNodeIDAny(ctx context.Context, nodeID uuid.UUID) (*core.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.projects {
		if p.NodeID == nodeID {
			copied := r.joined(p)
			return &copied, nil
		}
	}
	return nil, core.ErrProjectNotFound
}

func (r *ProjectRepo) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]core.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var projects []core.Project
	for _, p := range r.s.projects {
		if p.OwnerID == ownerID {
			projects = append(projects, r.joined(p))
		}
	}
	return paginate(projects, limit, offset), nil
}

func (r *ProjectRepo) ListAll(ctx context.Context, limit, offset int) ([]core.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	projects := make([]core.Project, 0, len(r.s.projects))
	for i := len(r.s.projects) - 1; i >= 0; i-- {
		projects = append(projects, r.joined(r.s.projects[i]))
	}
	return paginate(projects, limit, offset), nil
}

func (r *ProjectRepo) ListByAddress(ctx context.Context, address string) ([]core.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ident, ok := r.s.identities[address]
	if !ok {
		return nil, nil
	}
	var projects []core.Project
	for _, p := range r.s.projects {
		if p.OwnerID == ident.ID {
			projects = append(projects, r.joined(p))
		}
	}
	return projects, nil
}

func (r *ProjectRepo) Count(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return int64(len(r.s.projects)), nil
}

func (r *ProjectRepo) Update(ctx context.Context, nodeID uuid.UUID, changes core.ProjectUpdate) (*core.Project, error) {
	if changes.Empty() {
		return nil, core.ErrNoChanges
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.projects {
		if p.NodeID == nodeID {
			if changes.ReserveUntil != nil {
				p.PaidUntil = changes.ReserveUntil
			}
			if changes.IsPaid != nil {
				p.IsPaid = *changes.IsPaid
			}
			if changes.Status != nil {
				p.Status = *changes.Status
			}
			copied := r.joined(p)
			return &copied, nil
		}
	}
	return nil, core.ErrProjectNotFound
}

func (r *ProjectRepo) Delete(ctx context.Context, nodeID uuid.UUID, ownerID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, p := range r.s.projects {
		if p.NodeID == nodeID && (ownerID == 0 || p.OwnerID == ownerID) {
			r.s.projects = append(r.s.projects[:i], r.s.projects[i+1:]...)
			return nil
		}
	}
	return core.ErrProjectNotFound
}

func (r *ProjectRepo) APIKeyByNodeID(ctx context.Context, nodeID uuid.UUID, ownerID int64) (uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.projects {
		if p.NodeID == nodeID && p.OwnerID == ownerID {
			return p.APIKey, nil
		}
	}
	return uuid.Nil, core.ErrProjectNotFound
}

func (r *ProjectRepo) APIKeysByOwner(ctx context.Context, ownerID int64) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var keys []uuid.UUID
	for _, p := range r.s.projects {
		if p.OwnerID == ownerID {
			keys = append(keys, p.APIKey)
		}
	}
	return keys, nil
}

func paginate(projects []core.Project, limit, offset int) []core.Project {
	if offset >= len(projects) {
		return nil
	}
	projects = projects[offset:]
	if limit > 0 && limit < len(projects) {
		projects = projects[:limit]
	}
	return projects
}
