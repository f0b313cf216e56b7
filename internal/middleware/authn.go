package middleware

import (
	"net/http"
	"strings"

	"task-tracker/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

const contextKeyOwnerID = "owner_id"

// RequireAuth resolves the Authorization bearer token to a user id and stores
// it in the request context. Every failure mode (missing header, malformed
// token, bad signature, expired) produces the same response so the reason
// never leaks to the caller.
func RequireAuth(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthenticated(c)
			return
		}

		ownerID, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		c.Set(contextKeyOwnerID, ownerID)
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
}

// OwnerID returns the authenticated user id set by RequireAuth.
func OwnerID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(contextKeyOwnerID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
