package core

import "errors"

// Sentinel errors shared across layers. Transport maps them onto HTTP
// statuses; repositories and services wrap them with context.
var (
	// Validation failures, never retried.
	ErrInvalidAddress    = errors.New("invalid wallet address")
	ErrInvalidTimestamp  = errors.New("invalid timestamp format")
	ErrInvalidMode       = errors.New("invalid project mode")
	ErrInvalidNetwork    = errors.New("invalid project network")
	ErrInvalidStatus     = errors.New("invalid project status")
	ErrInvalidTimerange  = errors.New("invalid timerange")
	ErrNoChanges         = errors.New("no changes specified")
	ErrInvalidPagination = errors.New("invalid limit or offset")
	ErrInvalidCurrency   = errors.New("invalid currency definition")
	ErrStepOutOfRange    = errors.New("steps must be between 2 and 99")

	// Missing entities.
	ErrUnknownIdentity = errors.New("identity does not exist")
	ErrUnknownCurrency = errors.New("currency does not exist")
	ErrProjectNotFound = errors.New("project does not exist")
	ErrNoProjects      = errors.New("no projects found")

	// Authentication and authorization.
	ErrSignatureMismatch = errors.New("nonce signature could not be verified")
	ErrCredentialExpired = errors.New("credential has expired")
	ErrCredentialInvalid = errors.New("credential is invalid")
	ErrCredentialRevoked = errors.New("credential has been revoked")
	ErrForbidden         = errors.New("insufficient privilege")

	// Conflicts.
	ErrSymbolExists    = errors.New("currency symbol already exists")
	ErrCurrencyInUse   = errors.New("currency is referenced by existing projects")
	ErrAlreadyAdmin    = errors.New("identity is already an administrator")
	ErrNotAdmin        = errors.New("identity is not an administrator")
	ErrPrimordialAdmin = errors.New("primordial administrator cannot be changed")

	// Upstream collaborators.
	ErrMetricsUnavailable = errors.New("metrics store unavailable")
)
