package auth

import (
	"context"
	"errors"
	"net/http"

	"inputvote/backend/internal/vote"

	"github.com/gin-gonic/gin"
)

// AdminChecker reports whether a user may run admin operations.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID uint) (bool, error)
}

// AdminMiddleware creates a gin middleware to check for admin role.
// It must be used AFTER the standard AuthMiddleware.
func AdminMiddleware(users AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": vote.ErrUnauthenticated.Error()})
			return
		}

		isAdmin, err := users.IsAdmin(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, vote.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": vote.ErrUnauthenticated.Error()})
				return
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to check admin access"})
			return
		}

		if !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": vote.ErrUnauthorized.Error()})
			return
		}

		c.Next()
	}
}
