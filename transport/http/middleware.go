package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flashnodes/flashnodes/core"
	"github.com/flashnodes/flashnodes/service"
)

const (
	ctxIdentity   = "identity"
	ctxCredential = "credential"
)

// AuthMiddleware creates middleware that validates the bearer credential
// and resolves the calling identity into the request context.
func AuthMiddleware(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header"})
			return
		}

		identity, cred, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(statusFor(err), gin.H{"error": messageFor(err)})
			return
		}

		c.Set(ctxIdentity, identity)
		c.Set(ctxCredential, cred)
		c.Next()
	}
}

// AdminMiddleware requires the resolved identity to hold the administrator
// flag. The flag is re-read from storage on every request, so a demotion
// takes effect immediately regardless of what the credential claims.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := identityFrom(c)
		if identity == nil || !identity.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": core.ErrForbidden.Error()})
			return
		}
		c.Next()
	}
}

func identityFrom(c *gin.Context) *core.Identity {
	v, ok := c.Get(ctxIdentity)
	if !ok {
		return nil
	}
	identity, _ := v.(*core.Identity)
	return identity
}

func credentialFrom(c *gin.Context) *core.Credential {
	v, ok := c.Get(ctxCredential)
	if !ok {
		return nil
	}
	cred, _ := v.(*core.Credential)
	return cred
}
