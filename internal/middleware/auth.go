package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"wellness-care-api/internal/auth"
)

// gin context keys set by Auth.
const (
	CtxMobile    = "mobile"
	CtxSessionID = "sessionID"
)

// Auth requires a valid Bearer access token and stores the caller's mobile
// number and session id in the request context.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := ""
		if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
			raw = strings.TrimPrefix(h, "Bearer ")
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no token"})
			return
		}

		claims, err := auth.ParseToken(raw, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bad token"})
			return
		}

		c.Set(CtxMobile, claims.Mobile)
		c.Set(CtxSessionID, claims.SessionID)
		c.Next()
	}
}
