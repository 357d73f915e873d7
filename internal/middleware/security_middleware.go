package middleware

import (
	"net/http"
	"strings"

	"go-jewel-backoffice/internal/auth"

	"github.com/gin-gonic/gin"
)

// Permission names a flag carried in the token claims.
type Permission string

const (
	PermEditBills       Permission = "can_edit_bills"
	PermEditStock       Permission = "can_edit_stock"
	PermAuthorizeNonGST Permission = "can_authorize_nongst"
)

const claimsKey = "claims"

// AuthMiddleware checks if the user has a valid JWT token
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Format: "Bearer <token>"
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer"})
			return
		}

		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole is a secondary guard that checks for a specific role
func RequireRole(allowedRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role != allowedRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			return
		}
		c.Next()
	}
}

// RequirePermission lets admins through and otherwise checks one permission flag
func RequirePermission(p Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !HasPermission(c, p) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
			return
		}
		c.Next()
	}
}

// HasPermission reports whether the authenticated caller is an admin or holds p.
func HasPermission(c *gin.Context, p Permission) bool {
	claims := CurrentClaims(c)
	if claims == nil {
		return false
	}
	if claims.Role == "admin" {
		return true
	}
	switch p {
	case PermEditBills:
		return claims.CanEditBills
	case PermEditStock:
		return claims.CanEditStock
	case PermAuthorizeNonGST:
		return claims.CanAuthorizeNonGST
	}
	return false
}

// CurrentClaims returns the token claims stored by AuthMiddleware, or nil.
func CurrentClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
