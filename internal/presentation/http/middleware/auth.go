package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/cleanops-api/internal/presentation/http/dto/response"
	"github.com/sangkips/cleanops-api/pkg/utils"
)

// Gin context keys set by the auth and tenant middleware
const (
	ContextUserID     = "user_id"
	ContextUserEmail  = "user_email"
	ContextUserRoles  = "user_roles"
	ContextSuperAdmin = "super_admin"
	ContextScope      = "scope"
	ContextTenant     = "tenant"
	ContextMembership = "membership"
)

// AuthMiddleware creates a JWT authentication middleware
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextUserRoles, claims.Roles)
		c.Set(ContextSuperAdmin, claims.SuperAdmin)

		c.Next()
	}
}

// RequireSuperAdmin allows only platform super admins through
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsSuperAdmin(c) {
			response.Forbidden(c, "Super admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user, or uuid.Nil
func GetUserID(c *gin.Context) uuid.UUID {
	id, _ := c.Get(ContextUserID)
	userID, _ := id.(uuid.UUID)
	return userID
}

// IsSuperAdmin reports whether the token carried the super-admin flag
func IsSuperAdmin(c *gin.Context) bool {
	return c.GetBool(ContextSuperAdmin)
}
