// internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javiei/proomtb-backend/internal/session"
)

// AuthRequired verifies a provider-issued bearer token and exposes the
// identity in the request context.
func AuthRequired(verifier *session.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header",
			})
			c.Abort()
			return
		}

		sess, err := verifier.Verify(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired session token",
			})
			c.Abort()
			return
		}

		c.Set("user_id", sess.UserID)
		c.Set("email", sess.Email)
		c.Next()
	}
}

// OptionalAuth sets the identity when a valid token is present, and lets
// anonymous requests through untouched.
func OptionalAuth(verifier *session.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		sess, err := verifier.Verify(parts[1])
		if err != nil {
			c.Next()
			return
		}

		c.Set("user_id", sess.UserID)
		c.Set("email", sess.Email)
		c.Next()
	}
}
