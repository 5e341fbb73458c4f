// Package http exposes the service layer over a Gin HTTP API.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flashnodes/flashnodes/core"
)

// writeError maps a service error onto an HTTP status. Unknown errors
// become opaque 500s so internals never leak to clients.
func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": messageFor(err)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidAddress),
		errors.Is(err, core.ErrInvalidTimestamp),
		errors.Is(err, core.ErrInvalidMode),
		errors.Is(err, core.ErrInvalidNetwork),
		errors.Is(err, core.ErrInvalidStatus),
		errors.Is(err, core.ErrInvalidTimerange),
		errors.Is(err, core.ErrInvalidCurrency),
		errors.Is(err, core.ErrInvalidPagination),
		errors.Is(err, core.ErrStepOutOfRange),
		errors.Is(err, core.ErrNoChanges):
		return http.StatusUnprocessableEntity

	case errors.Is(err, core.ErrSignatureMismatch),
		errors.Is(err, core.ErrCredentialExpired),
		errors.Is(err, core.ErrCredentialInvalid),
		errors.Is(err, core.ErrCredentialRevoked):
		return http.StatusUnauthorized

	case errors.Is(err, core.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, core.ErrUnknownIdentity),
		errors.Is(err, core.ErrUnknownCurrency),
		errors.Is(err, core.ErrProjectNotFound),
		errors.Is(err, core.ErrNoProjects):
		return http.StatusNotFound

	case errors.Is(err, core.ErrSymbolExists),
		errors.Is(err, core.ErrCurrencyInUse),
		errors.Is(err, core.ErrAlreadyAdmin),
		errors.Is(err, core.ErrNotAdmin),
		errors.Is(err, core.ErrPrimordialAdmin):
		return http.StatusConflict

	case errors.Is(err, core.ErrMetricsUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func messageFor(err error) string {
	if statusFor(err) == http.StatusInternalServerError {
		return "Internal error"
	}
	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

// sentinels lists every error the API is allowed to echo verbatim.
var sentinels = []error{
	core.ErrInvalidAddress,
	core.ErrInvalidTimestamp,
	core.ErrInvalidMode,
	core.ErrInvalidNetwork,
	core.ErrInvalidStatus,
	core.ErrInvalidTimerange,
	core.ErrInvalidCurrency,
	core.ErrInvalidPagination,
	core.ErrStepOutOfRange,
	core.ErrNoChanges,
	core.ErrSignatureMismatch,
	core.ErrCredentialExpired,
	core.ErrCredentialInvalid,
	core.ErrCredentialRevoked,
	core.ErrForbidden,
	core.ErrUnknownIdentity,
	core.ErrUnknownCurrency,
	core.ErrProjectNotFound,
	core.ErrNoProjects,
	core.ErrSymbolExists,
	core.ErrCurrencyInUse,
	core.ErrAlreadyAdmin,
	core.ErrNotAdmin,
	core.ErrPrimordialAdmin,
	core.ErrMetricsUnavailable,
}
