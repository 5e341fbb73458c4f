package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/flashnodes/flashnodes/core"
)

// projectColumns is the join shape shared by all project selects: the
// project row plus the currency full name and the owner's address.
const projectColumns = `
p.id, p.node_id, p.owner_id, i.address, p.currency_symbol, c.full_name,
p.mode, p.network, p.status, p.is_paid, p.paid_until, p.created_on, p.api_key, p.prefix
FROM projects p
JOIN currencies c ON c.symbol = p.currency_symbol
JOIN identities i ON i.id = p.owner_id`

// ProjectRepo implements ProjectRepository using PostgreSQL.
type ProjectRepo struct{ db *DB }

// NewProjectRepo constructs a project repository.
func NewProjectRepo(db *DB) *ProjectRepo { return &ProjectRepo{db: db} }

func scanProject(row interface{ Scan(dest ...any) error }) (*core.Project, error) {
	var p core.Project
	err := row.Scan(&p.ID, &p.NodeID, &p.OwnerID, &p.OwnerAddress, &p.CurrencySymbol, &p.CurrencyName,
		&p.Mode, &p.Network, &p.Status, &p.IsPaid, &p.PaidUntil, &p.CreatedOn, &p.APIKey, &p.Prefix)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new project row and returns it joined with reference data.
func (r *ProjectRepo) Create(ctx context.Context, p *core.Project) (*core.Project, error) {
	const q = `
INSERT INTO projects (node_id, owner_id, currency_symbol, mode, network, status, is_paid, paid_until, api_key, prefix)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, created_on`
	row := r.db.Pool.QueryRow(ctx, q, p.NodeID, p.OwnerID, p.CurrencySymbol, p.Mode, p.Network,
		p.Status, p.IsPaid, p.PaidUntil, p.APIKey, p.Prefix)
	if err := row.Scan(&p.ID, &p.CreatedOn); err != nil {
		return nil, err
	}
	return p, nil
}

// GetByNodeID selects a project scoped to its owner.
func (r *ProjectRepo) GetByNodeID(ctx context.Context, nodeID uuid.UUID, ownerID int64) (*core.Project, error) {
	const q = `SELECT` + projectColumns + `
WHERE p.node_id=$1 AND p.owner_id=$2`
	p, err := scanProject(r.db.Pool.QueryRow(ctx, q, nodeID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrProjectNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetByNodeIDAny selects a project regardless of owner.
func (r *ProjectRepo) GetByNodeIDAny(ctx context.Context, nodeID uuid.UUID) (*core.Project, error) {
	const q = `SELECT` + projectColumns + `
WHERE p.node_id=$1`
	p, err := scanProject(r.db.Pool.QueryRow(ctx, q, nodeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrProjectNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListByOwner selects the owner's projects. A zero limit means no limit.
func (r *ProjectRepo) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]core.Project, error) {
	const q = `SELECT` + projectColumns + `
WHERE p.owner_id=$1
ORDER BY p.id
LIMIT NULLIF($2, 0) OFFSET $3`
	rows, err := r.db.Pool.Query(ctx, q, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProjects(rows)
}

// ListAll selects all projects, most recently created first.
func (r *ProjectRepo) ListAll(ctx context.Context, limit, offset int) ([]core.Project, error) {
	const q = `SELECT` + projectColumns + `
ORDER BY p.id DESC
LIMIT NULLIF($1, 0) OFFSET $2`
	rows, err := r.db.Pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProjects(rows)
}

// ListByAddress selects all projects owned by the given address.
func (r *ProjectRepo) ListByAddress(ctx context.Context, address string) ([]core.Project, error) {
	const q = `SELECT` + projectColumns + `
WHERE i.address=$1
ORDER BY p.id`
	rows, err := r.db.Pool.Query(ctx, q, address)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProjects(rows)
}

// Count returns the total number of projects.
func (r *ProjectRepo) Count(ctx context.Context) (int64, error) {
	const q = `SELECT count(*) FROM projects`
	var n int64
	if err := r.db.Pool.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Update applies a partial update; nil fields fall back to the stored value
// through COALESCE so omitted fields are never nulled out.
func (r *ProjectRepo) Update(ctx context.Context, nodeID uuid.UUID, changes core.ProjectUpdate) (*core.Project, error) {
	if changes.Empty() {
		return nil, core.ErrNoChanges
	}
	const q = `
UPDATE projects SET
  paid_until = COALESCE($2, paid_until),
  is_paid    = COALESCE($3, is_paid),
  status     = COALESCE($4, status)
WHERE node_id = $1
RETURNING node_id`
	var updated uuid.UUID
	if err := r.db.Pool.QueryRow(ctx, q, nodeID, changes.ReserveUntil, changes.IsPaid, changes.Status).Scan(&updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrProjectNotFound
		}
		return nil, err
	}
	return r.GetByNodeIDAny(ctx, nodeID)
}

// Delete hard-removes a project. A zero ownerID skips the ownership check.
func (r *ProjectRepo) Delete(ctx context.Context, nodeID uuid.UUID, ownerID int64) error {
	const q = `
DELETE FROM projects
WHERE node_id = $1 AND ($2::bigint = 0 OR owner_id = $2)`
	tag, err := r.db.Pool.Exec(ctx, q, nodeID, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrProjectNotFound
	}
	return nil
}

// APIKeyByNodeID returns the metrics api key for an owner's project.
func (r *ProjectRepo) APIKeyByNodeID(ctx context.Context, nodeID uuid.UUID, ownerID int64) (uuid.UUID, error) {
	const q = `SELECT api_key FROM projects WHERE node_id=$1 AND owner_id=$2`
	var key uuid.UUID
	if err := r.db.Pool.QueryRow(ctx, q, nodeID, ownerID).Scan(&key); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, core.ErrProjectNotFound
		}
		return uuid.Nil, err
	}
	return key, nil
}

// APIKeysByOwner returns the metrics api keys of all the owner's projects.
func (r *ProjectRepo) APIKeysByOwner(ctx context.Context, ownerID int64) ([]uuid.UUID, error) {
	const q = `SELECT api_key FROM projects WHERE owner_id=$1 ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []uuid.UUID
	for rows.Next() {
		var key uuid.UUID
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func collectProjects(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]core.Project, error) {
	var projects []core.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}
