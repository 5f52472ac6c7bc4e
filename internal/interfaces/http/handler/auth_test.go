package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	identityapp "github.com/vclothes/backend/internal/application/identity"
	"github.com/vclothes/backend/internal/infrastructure/auth"
	"github.com/vclothes/backend/internal/interfaces/http/middleware"
)

func newLogoutEngine(blacklist auth.TokenBlacklist, claims *auth.Claims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := identityapp.NewAuthService(nil, nil, blacklist, zap.NewNop())
	h := NewAuthHandler(svc)

	engine := gin.New()
	engine.POST("/logout", func(c *gin.Context) {
		if claims != nil {
			c.Set(middleware.JWTClaimsKey, claims)
		}
		h.Logout(c)
	})
	return engine
}

func TestAuthHandlerLogout(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	claims := &auth.Claims{
		UserID:    "b5c9e2a0-0000-0000-0000-000000000001",
		TokenType: auth.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "session-jti-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	engine := newLogoutEngine(blacklist, claims)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Logged out")

	revoked, err := blacklist.IsBlacklisted(context.Background(), "session-jti-1")
	require.NoError(t, err)
	assert.True(t, revoked, "logout revokes the presented token")
}

func TestAuthHandlerLogoutWithoutClaims(t *testing.T) {
	engine := newLogoutEngine(auth.NewInMemoryTokenBlacklist(), nil)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_UNAUTHORIZED")
}
