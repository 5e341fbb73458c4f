package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flashnodes/flashnodes/service"
)

// AuthHandlers contains HTTP handlers for the wallet auth endpoints
type AuthHandlers struct {
	auth *service.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(auth *service.AuthService) *AuthHandlers {
	return &AuthHandlers{auth: auth}
}

// Challenge issues a fresh nonce for the address to sign
func (h *AuthHandlers) Challenge(c *gin.Context) {
	address, nonce, err := h.auth.RequestChallenge(c.Request.Context(), c.Param("address"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address": address,
		"nonce":   nonce,
	})
}

// Login verifies a signed nonce and issues a session credential
func (h *AuthHandlers) Login(c *gin.Context) {
	var req struct {
		Address   string `json:"address" binding:"required"`
		Signature string `json:"signature" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	token, nonce, err := h.auth.Login(c.Request.Context(), req.Address, req.Signature)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int(h.auth.AccessTTL() / time.Second),
		"nonce":        nonce,
	})
}

// Logout revokes the calling credential for the rest of its lifetime
func (h *AuthHandlers) Logout(c *gin.Context) {
	cred := credentialFrom(c)
	if cred == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Credential not found in context"})
		return
	}

	if err := h.auth.Logout(c.Request.Context(), cred); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the authenticated identity
func (h *AuthHandlers) Me(c *gin.Context) {
	identity := identityFrom(c)
	if identity == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Identity not found in context"})
		return
	}

	c.JSON(http.StatusOK, newIdentityResponse(identity))
}
