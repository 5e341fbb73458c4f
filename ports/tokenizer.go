package ports

import (
	"time"

	"github.com/flashnodes/flashnodes/core"
)

// Tokenizer issues and validates stateless session credentials.
type Tokenizer interface {
	// Issue produces a signed token asserting the identity, expiring at
	// now + ttl.
	Issue(identity *core.Identity, ttl time.Duration) (string, error)

	// Validate verifies integrity and expiry and returns the credential.
	// Fails with core.ErrCredentialExpired or core.ErrCredentialInvalid.
	Validate(token string) (*core.Credential, error)
}
