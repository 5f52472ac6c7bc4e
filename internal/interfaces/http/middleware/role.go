package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Role hierarchy ranks. A higher rank satisfies any lower-rank requirement,
// so admin routes accept admin only while manager routes accept admin too.
var roleRank = map[string]int{
	"user":    1,
	"manager": 2,
	"admin":   3,
}

// RoleConfig holds configuration for role middleware
type RoleConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when access is denied (optional)
	OnDenied func(c *gin.Context, requiredRole string)
}

// RequireRole creates middleware that requires at least the given role.
// The JWT middleware must run first so claims are present in the context.
func RequireRole(role string) gin.HandlerFunc {
	return RequireRoleWithConfig(role, RoleConfig{})
}

// RequireRoleWithConfig creates role middleware with custom config
func RequireRoleWithConfig(role string, cfg RoleConfig) gin.HandlerFunc {
	requiredRank, known := roleRank[role]
	return func(c *gin.Context) {
		if !known {
			handleRoleDenied(c, cfg, role, "Unknown required role")
			return
		}

		claims := GetJWTClaims(c)
		if claims == nil {
			handleRoleDenied(c, cfg, role, "No authentication claims found")
			return
		}

		userRank, ok := roleRank[claims.Role]
		if !ok || userRank < requiredRank {
			handleRoleDenied(c, cfg, role, "User role is insufficient")
			return
		}

		if cfg.Logger != nil {
			cfg.Logger.Debug("Role check passed",
				zap.String("user_id", claims.UserID),
				zap.String("user_role", claims.Role),
				zap.String("required_role", role),
			)
		}

		c.Next()
	}
}

// RequireStaff creates middleware that requires the manager role or higher.
func RequireStaff() gin.HandlerFunc {
	return RequireRole("manager")
}

// RequireAdmin creates middleware that requires the admin role.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole("admin")
}

// IsStaff reports whether the authenticated user has the manager role or higher.
func IsStaff(c *gin.Context) bool {
	return HasRole(c, "manager")
}

// HasRole reports whether the authenticated user satisfies the given role.
func HasRole(c *gin.Context, role string) bool {
	claims := GetJWTClaims(c)
	if claims == nil {
		return false
	}
	requiredRank, known := roleRank[role]
	if !known {
		return false
	}
	userRank, ok := roleRank[claims.Role]
	return ok && userRank >= requiredRank
}

// handleRoleDenied handles role denied scenarios
func handleRoleDenied(c *gin.Context, cfg RoleConfig, requiredRole, reason string) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(c, requiredRole)
		return
	}

	if cfg.Logger != nil {
		userID := ""
		userRole := ""
		if claims := GetJWTClaims(c); claims != nil {
			userID = claims.UserID
			userRole = claims.Role
		}

		cfg.Logger.Warn("Role check denied",
			zap.String("reason", reason),
			zap.String("user_id", userID),
			zap.String("user_role", userRole),
			zap.String("required_role", requiredRole),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
	}

	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_FORBIDDEN",
			"message": "Access denied: insufficient role",
		},
	})
}
