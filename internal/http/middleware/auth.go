package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/prospectly/leadtrack/internal/token"
)

const identityKey = "identity"

// SessionCookie is the cookie carrying the session token alongside the
// Authorization header.
const SessionCookie = "auth-token"

// Auth guards routes behind a verified session token.
type Auth struct {
	Signer *token.Signer
}

// RequireSession extracts the session token (Authorization header first,
// then the auth-token cookie), verifies it, and attaches the identity.
// Verification failures of every kind collapse into one 401.
func (m *Auth) RequireSession(c *gin.Context) {
	raw := extractToken(c)
	if raw == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "error_description": "Authentication required."})
		return
	}

	identity, ok := m.Signer.Verify(raw)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "error_description": "Invalid or expired session."})
		return
	}

	c.Set(identityKey, identity)
	c.Next()
}

// GetIdentity exposes the verified session identity to handlers.
func GetIdentity(c *gin.Context) (token.Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return token.Identity{}, false
	}
	identity, ok := value.(token.Identity)
	return identity, ok
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	cookie, err := c.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return cookie
}
