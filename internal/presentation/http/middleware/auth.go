package middleware

import (
	"strings"

	"github.com/eazyque/eazyque-api/internal/domain/enum"
	"github.com/eazyque/eazyque-api/internal/presentation/http/dto/response"
	"github.com/eazyque/eazyque-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by AuthMiddleware
const (
	ContextUserID    = "user_id"
	ContextShopID    = "shop_id"
	ContextUserEmail = "user_email"
	ContextUserRole  = "user_role"
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

		// Extract token from "Bearer <token>"
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

		role, ok := enum.ParseUserRole(claims.Role)
		if !ok || claims.ShopID == uuid.Nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextShopID, claims.ShopID)
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextUserRole, role)

		c.Next()
	}
}

// RequirePermission creates a middleware that requires a specific permission
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetUserRole(c)
		if role == "" {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		if !role.Can(permission) {
			response.Forbidden(c, "You do not have permission to perform this action")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetShopID retrieves the authenticated shop from gin context
func GetShopID(c *gin.Context) uuid.UUID {
	shopID, exists := c.Get(ContextShopID)
	if !exists {
		return uuid.Nil
	}
	id, ok := shopID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

// GetUserID retrieves the authenticated user from gin context
func GetUserID(c *gin.Context) uuid.UUID {
	userID, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil
	}
	id, ok := userID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

// GetUserRole retrieves the authenticated user's role
func GetUserRole(c *gin.Context) enum.UserRole {
	role, exists := c.Get(ContextUserRole)
	if !exists {
		return ""
	}
	r, _ := role.(enum.UserRole)
	return r
}
