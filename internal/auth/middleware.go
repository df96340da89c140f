package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextKeyIdentity holds the Identity of an authenticated request.
const ContextKeyIdentity = "auth_identity"

// RequireIdentity lets a request through only while someone is signed in. The
// records engine does no authorization of its own; this is the gate in front
// of it.
func RequireIdentity(state *SessionState) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := state.Current()
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
				"code":  "unauthenticated",
			})
			return
		}
		c.Set(ContextKeyIdentity, id)
		c.Next()
	}
}

// GetIdentity retrieves the identity stored by RequireIdentity.
func GetIdentity(c *gin.Context) (Identity, bool) {
	if v, exists := c.Get(ContextKeyIdentity); exists {
		if id, ok := v.(Identity); ok {
			return id, true
		}
	}
	return Identity{}, false
}

// GetUsername retrieves the authenticated username, or "".
func GetUsername(c *gin.Context) string {
	id, _ := GetIdentity(c)
	return id.Username
}
