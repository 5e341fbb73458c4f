package tokenizer

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flashnodes/flashnodes/core"
)

func newTokenizer(t *testing.T) *JWTTokenizer {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return NewJWTTokenizer(key).(*JWTTokenizer)
}

func TestIssueValidateRoundtrip(t *testing.T) {
	tk := newTokenizer(t)
	identity := &core.Identity{Address: "0xab5801a7d398351b8be11c439e05c5b3259aec9b", IsAdmin: true}

	token, err := tk.Issue(identity, time.Minute)
	require.NoError(t, err)

	cred, err := tk.Validate(token)
	require.NoError(t, err)
	require.Equal(t, identity.Address, cred.Address)
	require.True(t, cred.IsAdmin)
	require.NotEmpty(t, cred.ID)
	require.WithinDuration(t, time.Now().Add(time.Minute), cred.ExpiresAt, 5*time.Second)
}

func TestValidateExpired(t *testing.T) {
	tk := newTokenizer(t)
	token, err := tk.Issue(&core.Identity{Address: "0xab5801a7d398351b8be11c439e05c5b3259aec9b"}, -time.Minute)
	require.NoError(t, err)

	_, err = tk.Validate(token)
	require.ErrorIs(t, err, core.ErrCredentialExpired)
}

func TestValidateGarbage(t *testing.T) {
	tk := newTokenizer(t)

	_, err := tk.Validate("not.a.token")
	require.ErrorIs(t, err, core.ErrCredentialInvalid)

	// A token signed by a different key fails integrity verification.
	other := newTokenizer(t)
	token, err := other.Issue(&core.Identity{Address: "0xab5801a7d398351b8be11c439e05c5b3259aec9b"}, time.Minute)
	require.NoError(t, err)
	_, err = tk.Validate(token)
	require.ErrorIs(t, err, core.ErrCredentialInvalid)
}
