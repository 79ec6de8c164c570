package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primeapparel/backend/internal/infrastructure/auth"
	"github.com/primeapparel/backend/internal/infrastructure/config"
)

func newTestAuthService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "pae-backend",
	})
}

func issueToken(t *testing.T, svc *auth.JWTService, role auth.Role) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	token, _, err := svc.GenerateAccessToken(auth.GenerateTokenInput{
		UserID:   userID,
		Username: "tester",
		Role:     role,
	})
	require.NoError(t, err)
	return token, userID
}

func newJWTTestRouter(svc *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
		JWTService:       svc,
		SkipPaths:        []string{"/health"},
		SkipPathPrefixes: []string{"/files"},
	}))
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetJWTUserID(c)})
	}
	engine.GET("/health", handler)
	engine.GET("/files/doc.pdf", handler)
	engine.GET("/api/v1/documents", handler)
	return engine
}

func TestJWTAuthMiddleware(t *testing.T) {
	svc := newTestAuthService()

	t.Run("valid token passes and populates context", func(t *testing.T) {
		router := newJWTTestRouter(svc)
		token, userID := issueToken(t, svc, auth.RoleSeller)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		router := newJWTTestRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		router := newJWTTestRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token reports the expired code", func(t *testing.T) {
		expired := auth.NewJWTService(config.JWTConfig{
			Secret:                "test-secret-key",
			AccessTokenExpiration: -time.Minute,
			Issuer:                "pae-backend",
		})
		token, _ := issueToken(t, expired, auth.RoleSeller)

		router := newJWTTestRouter(svc)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_TOKEN_EXPIRED")
	})

	t.Run("skip paths bypass authentication", func(t *testing.T) {
		router := newJWTTestRouter(svc)

		for _, path := range []string{"/health", "/files/doc.pdf"} {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, "path %s should skip auth", path)
		}
	})
}

func TestRequireRoles(t *testing.T) {
	svc := newTestAuthService()

	newRouter := func(roles ...auth.Role) *gin.Engine {
		gin.SetMode(gin.TestMode)
		engine := gin.New()
		engine.Use(JWTAuthMiddleware(svc))
		engine.GET("/api/v1/admin", RequireRoles(roles...), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return engine
	}

	t.Run("matching role passes", func(t *testing.T) {
		router := newRouter(auth.RoleAdmin, auth.RoleSeller)
		token, _ := issueToken(t, svc, auth.RoleSeller)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong role is forbidden", func(t *testing.T) {
		router := newRouter(auth.RoleAdmin)
		token, _ := issueToken(t, svc, auth.RoleBuyer)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_FORBIDDEN")
	})

	t.Run("missing claims are unauthorized", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		engine := gin.New()
		engine.GET("/unprotected", RequireRoles(auth.RoleAdmin), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/unprotected", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
