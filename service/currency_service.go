package service

import (
	"context"
	"strings"

	"github.com/flashnodes/flashnodes/core"
	"github.com/flashnodes/flashnodes/ports"
)

// CurrencyService manages the catalogue of provisionable currencies.
// Reads are open to every authenticated caller; writes are administrative.
type CurrencyService struct {
	currencies ports.CurrencyRepository
}

// NewCurrencyService creates a new currency catalogue service.
func NewCurrencyService(currencies ports.CurrencyRepository) *CurrencyService {
	return &CurrencyService{currencies: currencies}
}

// List returns every currency in the catalogue.
func (s *CurrencyService) List(ctx context.Context) ([]core.Currency, error) {
	return s.currencies.List(ctx)
}

// Get returns one currency by id.
func (s *CurrencyService) Get(ctx context.Context, id int64) (*core.Currency, error) {
	return s.currencies.GetByID(ctx, id)
}

// Create adds a currency. The symbol is uppercased before storage so
// lookups stay case-insensitive on the write side.
func (s *CurrencyService) Create(ctx context.Context, symbol, fullName, details string) (*core.Currency, error) {
	currency, err := normalizeCurrency(symbol, fullName, details)
	if err != nil {
		return nil, err
	}
	return s.currencies.Create(ctx, currency)
}

// Update replaces a currency's definition.
func (s *CurrencyService) Update(ctx context.Context, id int64, symbol, fullName, details string) (*core.Currency, error) {
	currency, err := normalizeCurrency(symbol, fullName, details)
	if err != nil {
		return nil, err
	}
	return s.currencies.Update(ctx, id, currency)
}

// Delete removes a currency from the catalogue. Currencies referenced by
// existing projects cannot be deleted.
func (s *CurrencyService) Delete(ctx context.Context, id int64) error {
	return s.currencies.Delete(ctx, id)
}

func normalizeCurrency(symbol, fullName, details string) (*core.Currency, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	fullName = strings.TrimSpace(fullName)
	if symbol == "" || len(symbol) > 12 || fullName == "" {
		return nil, core.ErrInvalidCurrency
	}
	return &core.Currency{Symbol: symbol, FullName: fullName, Details: details}, nil
}
