package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/vclothes/backend/internal/infrastructure/auth"
)

func withClaims(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(JWTClaimsKey, &auth.Claims{
			UserID: "6f9f54c0-94ec-4b73-9a53-9ce20ba68f2c",
			Email:  "staff@example.com",
			Role:   role,
		})
		c.Next()
	}
}

func performRoleRequest(t *testing.T, middlewares ...gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	router := gin.New()
	for _, m := range middlewares {
		router.Use(m)
	}
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireRole_ExactMatch(t *testing.T) {
	rec := performRoleRequest(t, withClaims("manager"), RequireRole("manager"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_HigherRoleAllowed(t *testing.T) {
	rec := performRoleRequest(t, withClaims("admin"), RequireRole("user"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_LowerRoleDenied(t *testing.T) {
	rec := performRoleRequest(t, withClaims("user"), RequireRole("manager"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_FORBIDDEN")
}

func TestRequireRole_NoClaims(t *testing.T) {
	rec := performRoleRequest(t, RequireRole("user"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_UnknownUserRole(t *testing.T) {
	rec := performRoleRequest(t, withClaims("superhero"), RequireRole("user"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_UnknownRequiredRole(t *testing.T) {
	rec := performRoleRequest(t, withClaims("admin"), RequireRole("owner"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireStaff(t *testing.T) {
	t.Run("manager allowed", func(t *testing.T) {
		rec := performRoleRequest(t, withClaims("manager"), RequireStaff())
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("admin allowed", func(t *testing.T) {
		rec := performRoleRequest(t, withClaims("admin"), RequireStaff())
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("user denied", func(t *testing.T) {
		rec := performRoleRequest(t, withClaims("user"), RequireStaff())
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Run("admin allowed", func(t *testing.T) {
		rec := performRoleRequest(t, withClaims("admin"), RequireAdmin())
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("manager denied", func(t *testing.T) {
		rec := performRoleRequest(t, withClaims("manager"), RequireAdmin())
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRequireRoleWithConfig_OnDenied(t *testing.T) {
	deniedRole := ""
	cfg := RoleConfig{
		OnDenied: func(c *gin.Context, requiredRole string) {
			deniedRole = requiredRole
			c.AbortWithStatus(http.StatusTeapot)
		},
	}

	rec := performRoleRequest(t, withClaims("user"), RequireRoleWithConfig("admin", cfg))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "admin", deniedRole)
}

func TestHasRole(t *testing.T) {
	router := gin.New()
	router.Use(withClaims("manager"))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"is_staff": IsStaff(c),
			"is_admin": HasRole(c, "admin"),
			"is_user":  HasRole(c, "user"),
			"bad_role": HasRole(c, "owner"),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_staff":true`)
	assert.Contains(t, rec.Body.String(), `"is_admin":false`)
	assert.Contains(t, rec.Body.String(), `"is_user":true`)
	assert.Contains(t, rec.Body.String(), `"bad_role":false`)
}
