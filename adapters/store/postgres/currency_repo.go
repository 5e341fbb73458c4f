package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/flashnodes/flashnodes/core"
)

// CurrencyRepo implements CurrencyRepository using PostgreSQL.
type CurrencyRepo struct{ db *DB }

// NewCurrencyRepo constructs a currency repository.
func NewCurrencyRepo(db *DB) *CurrencyRepo { return &CurrencyRepo{db: db} }

// Create inserts a currency descriptor.
func (r *CurrencyRepo) Create(ctx context.Context, c *core.Currency) (*core.Currency, error) {
	const q = `
INSERT INTO currencies (symbol, full_name, details)
VALUES ($1, $2, $3)
RETURNING id`
	if err := r.db.Pool.QueryRow(ctx, q, c.Symbol, c.FullName, c.Details).Scan(&c.ID); err != nil {
		if isUniqueViolation(err) {
			return nil, core.ErrSymbolExists
		}
		return nil, err
	}
	return c, nil
}

// GetByID selects a currency by id.
func (r *CurrencyRepo) GetByID(ctx context.Context, id int64) (*core.Currency, error) {
	const q = `SELECT id, symbol, full_name, details FROM currencies WHERE id=$1`
	var c core.Currency
	if err := r.db.Pool.QueryRow(ctx, q, id).Scan(&c.ID, &c.Symbol, &c.FullName, &c.Details); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrUnknownCurrency
		}
		return nil, err
	}
	return &c, nil
}

// GetBySymbol selects a currency by its unique symbol.
func (r *CurrencyRepo) GetBySymbol(ctx context.Context, symbol string) (*core.Currency, error) {
	const q = `SELECT id, symbol, full_name, details FROM currencies WHERE symbol=$1`
	var c core.Currency
	if err := r.db.Pool.QueryRow(ctx, q, symbol).Scan(&c.ID, &c.Symbol, &c.FullName, &c.Details); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrUnknownCurrency
		}
		return nil, err
	}
	return &c, nil
}

// List selects all currencies.
func (r *CurrencyRepo) List(ctx context.Context) ([]core.Currency, error) {
	const q = `SELECT id, symbol, full_name, details FROM currencies ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var currencies []core.Currency
	for rows.Next() {
		var c core.Currency
		if err := rows.Scan(&c.ID, &c.Symbol, &c.FullName, &c.Details); err != nil {
			return nil, err
		}
		currencies = append(currencies, c)
	}
	return currencies, rows.Err()
}

// Update replaces the descriptor fields of an existing currency.
func (r *CurrencyRepo) Update(ctx context.Context, id int64, c *core.Currency) (*core.Currency, error) {
	const q = `
UPDATE currencies SET symbol=$2, full_name=$3, details=$4
WHERE id=$1
RETURNING id, symbol, full_name, details`
	var updated core.Currency
	if err := r.db.Pool.QueryRow(ctx, q, id, c.Symbol, c.FullName, c.Details).Scan(
		&updated.ID, &updated.Symbol, &updated.FullName, &updated.Details); err != nil {
		if isUniqueViolation(err) {
			return nil, core.ErrSymbolExists
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrUnknownCurrency
		}
		return nil, err
	}
	return &updated, nil
}

// Delete removes a currency descriptor. Currencies referenced by existing
// projects are protected by the foreign key.
func (r *CurrencyRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM currencies WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return core.ErrCurrencyInUse
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrUnknownCurrency
	}
	return nil
}
