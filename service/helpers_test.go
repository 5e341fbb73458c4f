package service

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/flashnodes/flashnodes/adapters/denylist"
	"github.com/flashnodes/flashnodes/adapters/store/memory"
	"github.com/flashnodes/flashnodes/adapters/tokenizer"
	"github.com/flashnodes/flashnodes/core"
)

// nopPublisher discards all events.
type nopPublisher struct{}

func (nopPublisher) PublishLogin(ctx context.Context, address string) error            { return nil }
func (nopPublisher) PublishProjectCreated(ctx context.Context, p *core.Project) error  { return nil }
func (nopPublisher) PublishProjectUpdated(ctx context.Context, p *core.Project) error  { return nil }
func (nopPublisher) PublishProjectDeleted(ctx context.Context, nodeID string) error    { return nil }

func newTestAuthService(t *testing.T, store *memory.Store) *AuthService {
	t.Helper()

	signKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	return NewAuthService(
		store.Identities(),
		tokenizer.NewJWTTokenizer(signKey),
		denylist.NewMemoryDenyList(),
		nopPublisher{},
		zap.NewNop(),
		0,
	)
}

func seedCurrency(t *testing.T, store *memory.Store, symbol, name string) *core.Currency {
	t.Helper()

	c, err := store.Currencies().Create(context.Background(), &core.Currency{
		Symbol:   symbol,
		FullName: name,
	})
	require.NoError(t, err)
	return c
}

func seedIdentity(t *testing.T, store *memory.Store, address string) *core.Identity {
	t.Helper()

	ident, err := store.Identities().Create(context.Background(), address, "nonce")
	require.NoError(t, err)
	return ident
}
