package core

import "time"

// Identity is a wallet-bound account. The address is the canonical
// lowercase hex form and is the unique key for the record.
type Identity struct {
	ID        int64
	Address   string
	Nonce     string // outstanding single-use challenge, overwritten on every issuance
	IsAdmin   bool
	CreatedAt time.Time
}

// PrimordialAdminID is the row id of the first seeded administrator.
// That identity can never be demoted.
const PrimordialAdminID int64 = 1

// Credential is a validated session credential extracted from a signed token.
type Credential struct {
	ID        string // token id (jti), used by the deny-list on logout
	Address   string
	IsAdmin   bool
	ExpiresAt time.Time
}
