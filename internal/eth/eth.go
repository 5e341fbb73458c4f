// Package eth wraps the go-ethereum primitives used for wallet
// authentication: address validation and personal-message signer recovery.
package eth

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/flashnodes/flashnodes/core"
)

// ValidateAddress checks that s is a well-formed hex wallet address and
// returns its canonical lowercase 0x-prefixed form.
func ValidateAddress(s string) (string, error) {
	if !common.IsHexAddress(s) {
		return "", core.ErrInvalidAddress
	}
	return strings.ToLower(common.HexToAddress(s).Hex()), nil
}

// RecoverSigner recovers the address that produced signature over the
// EIP-191 personal message form of msg, returned in canonical lowercase.
// Wallets encode the recovery id as 27/28; raw libraries use 0/1. Both
// are accepted.
func RecoverSigner(msg, signature string) (string, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return "", core.ErrSignatureMismatch
	}
	if len(sig) != crypto.SignatureLength {
		return "", core.ErrSignatureMismatch
	}

	normalized := make([]byte, len(sig))
	copy(normalized, sig)
	if normalized[crypto.RecoveryIDOffset] >= 27 {
		normalized[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(msg)), normalized)
	if err != nil {
		return "", core.ErrSignatureMismatch
	}

	return strings.ToLower(crypto.PubkeyToAddress(*pub).Hex()), nil
}
