package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Context keys for the resolved caller identity.
const (
	CtxUserID   = "user_id"
	CtxUserRole = "user_role"
)

// Header names set by the upstream auth proxy after session verification.
// This core trusts them the same way it would trust a resolved bearer token;
// issuing and validating credentials is the auth collaborator's job.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// Identity extracts the caller from auth headers and rejects anonymous
// requests on protected routes.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(HeaderUserID)
		role := c.GetHeader(HeaderUserRole)
		if userID == "" || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Set(CtxUserID, userID)
		c.Set(CtxUserRole, role)
		c.Next()
	}
}

// UserID returns the authenticated user id, empty when unauthenticated.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}

// UserRole returns the authenticated role, empty when unauthenticated.
func UserRole(c *gin.Context) string {
	return c.GetString(CtxUserRole)
}
