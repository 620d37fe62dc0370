package auth

import (
	"net/http"
	"strings"
	"time"

	"inputvote/backend/internal/vote"
	"inputvote/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

const (
	// CookieName is the session cookie set after a Steam login.
	CookieName = "session"

	userIDKey = "userID"
)

// UserID returns the authenticated user, if any.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// SetUserID marks the request as authenticated.
func SetUserID(c *gin.Context, id uint) {
	c.Set(userIDKey, id)
}

// tokenFromRequest prefers the session cookie and falls back to a bearer header.
func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		return cookie
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func authenticate(c *gin.Context, secret string) bool {
	token := tokenFromRequest(c)
	if token == "" {
		return false
	}
	id, err := jwt.ParseToken(token, secret)
	if err != nil {
		return false
	}
	SetUserID(c, id)
	return true
}

// AuthMiddleware rejects requests without a valid session.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, secret) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": vote.ErrUnauthenticated.Error()})
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware inspects for a token and sets the userID if present and valid,
// but does not fail if the token is missing or invalid.
func OptionalAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, secret)
		c.Next()
	}
}

// SetSession writes the session cookie.
func SetSession(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(ttl.Seconds()), "/", "", secure, true)
}

// ClearSession expires the session cookie.
func ClearSession(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", secure, true)
}
