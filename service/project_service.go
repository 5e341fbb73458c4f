package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flashnodes/flashnodes/core"
	"github.com/flashnodes/flashnodes/ports"
)

// ProjectService owns the project lifecycle: creation, payment and
// reservation flagging, status transitions, and deletion.
type ProjectService struct {
	projects   ports.ProjectRepository
	currencies ports.CurrencyRepository
	identities ports.IdentityRepository
	events     ports.EventPublisher
	logger     *zap.Logger
}

// NewProjectService creates a new project lifecycle service.
func NewProjectService(
	projects ports.ProjectRepository,
	currencies ports.CurrencyRepository,
	identities ports.IdentityRepository,
	events ports.EventPublisher,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projects:   projects,
		currencies: currencies,
		identities: identities,
		events:     events,
		logger:     logger,
	}
}

// CreateProjectInput carries the owner-supplied provisioning request.
type CreateProjectInput struct {
	CurrencySymbol string
	Mode           string
	Network        string
	PayUntil       string // ISO-8601
}

// ProjectChanges is a partial administrative update. Nil fields are left
// untouched; explicit false/empty values are applied.
type ProjectChanges struct {
	ReserveUntil *string // ISO-8601
	IsPaid       *bool
	Status       *string
}

// Create provisions a new project for the owner. The node id and api key
// are generated here and never reassigned; the prefix is 8 random
// lowercase-alphanumeric characters used for resource naming.
func (s *ProjectService) Create(ctx context.Context, owner *core.Identity, in CreateProjectInput) (*core.Project, error) {
	mode, err := core.ParseMode(in.Mode)
	if err != nil {
		return nil, err
	}
	network, err := core.ParseNetwork(in.Network)
	if err != nil {
		return nil, err
	}
	payUntil, err := parseISOTime(in.PayUntil)
	if err != nil {
		return nil, err
	}

	currency, err := s.currencies.GetBySymbol(ctx, in.CurrencySymbol)
	if err != nil {
		return nil, err
	}

	prefix, err := randomPrefix(8)
	if err != nil {
		return nil, fmt.Errorf("failed to generate prefix: %w", err)
	}

	project := &core.Project{
		NodeID:         uuid.New(),
		OwnerID:        owner.ID,
		OwnerAddress:   owner.Address,
		CurrencySymbol: currency.Symbol,
		CurrencyName:   currency.FullName,
		Mode:           mode,
		Network:        network,
		Status:         core.StatusPending,
		IsPaid:         false,
		PaidUntil:      &payUntil,
		APIKey:         uuid.New(),
		Prefix:         prefix,
	}

	created, err := s.projects.Create(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	if err := s.events.PublishProjectCreated(ctx, created); err != nil {
		s.logger.Warn("failed to publish project created event", zap.Error(err))
	}
	return created, nil
}

// CreateFor provisions a project on behalf of the identity owning the
// given address (administrative).
func (s *ProjectService) CreateFor(ctx context.Context, ownerAddress string, in CreateProjectInput) (*core.Project, error) {
	owner, err := s.identities.GetByAddress(ctx, strings.ToLower(ownerAddress))
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, owner, in)
}

// Get returns one of the owner's projects by node id.
func (s *ProjectService) Get(ctx context.Context, owner *core.Identity, nodeID uuid.UUID) (*core.Project, error) {
	return s.projects.GetByNodeID(ctx, nodeID, owner.ID)
}

// List returns the owner's projects with limit/offset pagination.
func (s *ProjectService) List(ctx context.Context, owner *core.Identity, limit, offset int) ([]core.Project, error) {
	if err := validatePagination(limit, offset); err != nil {
		return nil, err
	}
	return s.projects.ListByOwner(ctx, owner.ID, limit, offset)
}

// ListAll returns all projects, most recently created first, plus the
// total record count (administrative).
func (s *ProjectService) ListAll(ctx context.Context, limit, offset int) ([]core.Project, int64, error) {
	if err := validatePagination(limit, offset); err != nil {
		return nil, 0, err
	}
	projects, err := s.projects.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.projects.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// ListByAddress returns all projects owned by an address (administrative).
func (s *ProjectService) ListByAddress(ctx context.Context, address string) ([]core.Project, error) {
	return s.projects.ListByAddress(ctx, strings.ToLower(address))
}

// Update applies a partial administrative update. Any status is settable to
// any other; the intended forward flow is documented on core.Status but not
// enforced here.
func (s *ProjectService) Update(ctx context.Context, nodeID uuid.UUID, changes ProjectChanges) (*core.Project, error) {
	if _, err := s.projects.GetByNodeIDAny(ctx, nodeID); err != nil {
		return nil, err
	}
	if changes.ReserveUntil == nil && changes.IsPaid == nil && changes.Status == nil {
		return nil, core.ErrNoChanges
	}

	var update core.ProjectUpdate
	if changes.ReserveUntil != nil {
		reserveUntil, err := parseISOTime(*changes.ReserveUntil)
		if err != nil {
			return nil, err
		}
		update.ReserveUntil = &reserveUntil
	}
	if changes.IsPaid != nil {
		update.IsPaid = changes.IsPaid
	}
	if changes.Status != nil {
		status, err := core.ParseStatus(*changes.Status)
		if err != nil {
			return nil, err
		}
		update.Status = &status
	}

	updated, err := s.projects.Update(ctx, nodeID, update)
	if err != nil {
		return nil, err
	}

	if err := s.events.PublishProjectUpdated(ctx, updated); err != nil {
		s.logger.Warn("failed to publish project updated event", zap.Error(err))
	}
	return updated, nil
}

// Delete hard-removes a project. A nil owner skips the ownership check
// (administrative delete).
func (s *ProjectService) Delete(ctx context.Context, nodeID uuid.UUID, owner *core.Identity) error {
	var ownerID int64
	if owner != nil {
		ownerID = owner.ID
	}
	if err := s.projects.Delete(ctx, nodeID, ownerID); err != nil {
		return err
	}

	if err := s.events.PublishProjectDeleted(ctx, nodeID.String()); err != nil {
		s.logger.Warn("failed to publish project deleted event", zap.Error(err))
	}
	return nil
}

func validatePagination(limit, offset int) error {
	if limit < 0 || offset < 0 {
		return core.ErrInvalidPagination
	}
	return nil
}

// isoLayouts are the accepted ISO-8601 shapes, from most to least specific.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseISOTime(s string) (time.Time, error) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, core.ErrInvalidTimestamp
}

const prefixCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomPrefix(n int) (string, error) {
	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	out := make([]byte, n)
	for i, b := range raw {
		out[i] = prefixCharset[int(b)%len(prefixCharset)]
	}
	return string(out), nil
}
