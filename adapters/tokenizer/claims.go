package tokenizer

import "github.com/golang-jwt/jwt/v5"

// AccessClaims combines standard claims with the administrative capability flag
type AccessClaims struct {
	jwt.RegisteredClaims
	Admin bool `json:"adm,omitempty"`
}
