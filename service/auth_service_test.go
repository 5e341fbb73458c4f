package service

import (
	"context"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/flashnodes/flashnodes/adapters/store/memory"
	"github.com/flashnodes/flashnodes/core"
)

// newWallet returns a fresh wallet address and a signer over its key.
func newWallet(t *testing.T) (string, func(msg string) string) {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	address := strings.ToLower(crypto.PubkeyToAddress(key.PublicKey).Hex())
	sign := func(msg string) string {
		sig, err := crypto.Sign(accounts.TextHash([]byte(msg)), key)
		require.NoError(t, err)
		return hexutil.Encode(sig)
	}
	return address, sign
}

func TestChallengeLoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	auth := newTestAuthService(t, store)
	address, sign := newWallet(t)

	canonical, nonce, err := auth.RequestChallenge(ctx, address)
	require.NoError(t, err)
	require.Equal(t, address, canonical)
	require.NotEmpty(t, nonce)

	token, newNonce, err := auth.Login(ctx, address, sign(nonce))
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEqual(t, nonce, newNonce)

	identity, cred, err := auth.Authenticate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, address, identity.Address)
	require.Equal(t, address, cred.Address)
}

func TestLoginReplayFails(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	auth := newTestAuthService(t, store)
	address, sign := newWallet(t)

	_, nonce, err := auth.RequestChallenge(ctx, address)
	require.NoError(t, err)

	sig := sign(nonce)
	_, _, err = auth.Login(ctx, address, sig)
	require.NoError(t, err)

	// The nonce rotated on the first login, so the same signature no
	// longer matches anything.
	_, _, err = auth.Login(ctx, address, sig)
	require.ErrorIs(t, err, core.ErrSignatureMismatch)
}

func TestFreshChallengeInvalidatesPrevious(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	auth := newTestAuthService(t, store)
	address, sign := newWallet(t)

	_, first, err := auth.RequestChallenge(ctx, address)
	require.NoError(t, err)
	_, second, err := auth.RequestChallenge(ctx, address)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, _, err = auth.Login(ctx, address, sign(first))
	require.ErrorIs(t, err, core.ErrSignatureMismatch)

	_, _, err = auth.Login(ctx, address, sign(second))
	require.NoError(t, err)
}

func TestLoginWrongSigner(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	auth := newTestAuthService(t, store)
	address, _ := newWallet(t)
	_, otherSign := newWallet(t)

	_, nonce, err := auth.RequestChallenge(ctx, address)
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, address, otherSign(nonce))
	require.ErrorIs(t, err, core.ErrSignatureMismatch)
}

func TestLoginUnknownIdentity(t *testing.T) {
	ctx := context.Background()
	auth := newTestAuthService(t, memory.NewStore())
	address, sign := newWallet(t)

	_, _, err := auth.Login(ctx, address, sign("whatever"))
	require.ErrorIs(t, err, core.ErrUnknownIdentity)
}

func TestConcurrentFirstContact(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	auth := newTestAuthService(t, store)
	address, sign := newWallet(t)

	// Two racing first challenges both pass the existence check before
	// either identity row lands; the create is an upsert so neither fails
	// and the later nonce is the one that verifies.
	first, err := store.Identities().Create(ctx, address, "nonce-a")
	require.NoError(t, err)
	second, err := store.Identities().Create(ctx, address, "nonce-b")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	_, _, err = auth.Login(ctx, address, sign("nonce-a"))
	require.ErrorIs(t, err, core.ErrSignatureMismatch)
	_, _, err = auth.Login(ctx, address, sign("nonce-b"))
	require.NoError(t, err)
}

func TestRequestChallengeInvalidAddress(t *testing.T) {
	auth := newTestAuthService(t, memory.NewStore())

	_, _, err := auth.RequestChallenge(context.Background(), "0xnot-an-address")
	require.ErrorIs(t, err, core.ErrInvalidAddress)
}

func TestLogoutRevokesCredential(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	auth := newTestAuthService(t, store)
	address, sign := newWallet(t)

	_, nonce, err := auth.RequestChallenge(ctx, address)
	require.NoError(t, err)
	token, _, err := auth.Login(ctx, address, sign(nonce))
	require.NoError(t, err)

	_, cred, err := auth.Authenticate(ctx, token)
	require.NoError(t, err)
	require.NoError(t, auth.Logout(ctx, cred))

	_, _, err = auth.Authenticate(ctx, token)
	require.ErrorIs(t, err, core.ErrCredentialRevoked)
}

func TestAuthenticateGarbageToken(t *testing.T) {
	auth := newTestAuthService(t, memory.NewStore())

	_, _, err := auth.Authenticate(context.Background(), "not.a.token")
	require.ErrorIs(t, err, core.ErrCredentialInvalid)
}
