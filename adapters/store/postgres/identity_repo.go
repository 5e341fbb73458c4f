package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/flashnodes/flashnodes/core"
)

// IdentityRepo implements IdentityRepository using PostgreSQL.
type IdentityRepo struct{ db *DB }

// NewIdentityRepo constructs an identity repository.
func NewIdentityRepo(db *DB) *IdentityRepo { return &IdentityRepo{db: db} }

// GetByAddress selects an identity by its canonical address.
func (r *IdentityRepo) GetByAddress(ctx context.Context, address string) (*core.Identity, error) {
	const q = `
SELECT id, address, nonce, is_admin, created_at
FROM identities WHERE address=$1`
	row := r.db.Pool.QueryRow(ctx, q, address)
	var ident core.Identity
	if err := row.Scan(&ident.ID, &ident.Address, &ident.Nonce, &ident.IsAdmin, &ident.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrUnknownIdentity
		}
		return nil, err
	}
	return &ident, nil
}

// Create upserts an identity row. A concurrent insert for the same address
// degrades to a nonce overwrite, which matches challenge semantics: the
// last issued nonce is the valid one.
func (r *IdentityRepo) Create(ctx context.Context, address, nonce string) (*core.Identity, error) {
	const q = `
INSERT INTO identities (address, nonce)
VALUES ($1, $2)
ON CONFLICT (address) DO UPDATE SET nonce = EXCLUDED.nonce
RETURNING id, address, nonce, is_admin, created_at`
	row := r.db.Pool.QueryRow(ctx, q, address, nonce)
	var ident core.Identity
	if err := row.Scan(&ident.ID, &ident.Address, &ident.Nonce, &ident.IsAdmin, &ident.CreatedAt); err != nil {
		return nil, err
	}
	return &ident, nil
}

// SetNonce overwrites the outstanding nonce unconditionally.
func (r *IdentityRepo) SetNonce(ctx context.Context, address, nonce string) error {
	const q = `UPDATE identities SET nonce = $2 WHERE address = $1`
	tag, err := r.db.Pool.Exec(ctx, q, address, nonce)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrUnknownIdentity
	}
	return nil
}

// RotateNonce replaces oldNonce with newNonce as a single compare-and-swap.
// The WHERE clause on the previous nonce makes concurrent verifications of
// the same challenge succeed at most once.
func (r *IdentityRepo) RotateNonce(ctx context.Context, address, oldNonce, newNonce string) error {
	const q = `
UPDATE identities SET nonce = $3
WHERE address = $1 AND nonce = $2`
	tag, err := r.db.Pool.Exec(ctx, q, address, oldNonce, newNonce)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrSignatureMismatch
	}
	return nil
}

// SetAdmin flips the administrative flag.
func (r *IdentityRepo) SetAdmin(ctx context.Context, address string, admin bool) error {
	const q = `UPDATE identities SET is_admin = $2 WHERE address = $1`
	tag, err := r.db.Pool.Exec(ctx, q, address, admin)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrUnknownIdentity
	}
	return nil
}

// ListAdmins selects all administrative identities.
func (r *IdentityRepo) ListAdmins(ctx context.Context) ([]core.Identity, error) {
	const q = `
SELECT id, address, nonce, is_admin, created_at
FROM identities WHERE is_admin ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []core.Identity
	for rows.Next() {
		var ident core.Identity
		if err := rows.Scan(&ident.ID, &ident.Address, &ident.Nonce, &ident.IsAdmin, &ident.CreatedAt); err != nil {
			return nil, err
		}
		admins = append(admins, ident)
	}
	return admins, rows.Err()
}
