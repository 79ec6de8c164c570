package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsettings "github.com/primeapparel/backend/internal/application/settings"
	"github.com/primeapparel/backend/internal/domain/settings"
	"github.com/primeapparel/backend/internal/infrastructure/auth"
	"github.com/primeapparel/backend/internal/infrastructure/config"
	"github.com/primeapparel/backend/internal/interfaces/http/middleware"
	"github.com/primeapparel/backend/internal/interfaces/http/router"
)

type fakeSettingsRepo struct {
	stored *settings.CompanySettings
}

func (r *fakeSettingsRepo) Get(_ context.Context) (*settings.CompanySettings, error) {
	return r.stored, nil
}

func (r *fakeSettingsRepo) Save(_ context.Context, s *settings.CompanySettings) error {
	r.stored = s
	return nil
}

type settingsTestServer struct {
	engine *gin.Engine
	jwt    *auth.JWTService
}

func newSettingsTestServer(t *testing.T) *settingsTestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "pae-backend",
	})

	g := gin.New()
	g.Use(middleware.JWTAuthMiddleware(jwtService))

	service := appsettings.NewSettingsService(&fakeSettingsRepo{}, nil)
	router.NewRouter(g).Register(SettingsRoutes(NewSettingsHandler(service))).Setup()

	return &settingsTestServer{engine: g, jwt: jwtService}
}

func (s *settingsTestServer) token(t *testing.T, role auth.Role) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(auth.GenerateTokenInput{
		UserID: uuid.New(), Username: "tester", Role: role,
	})
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func validSettingsBody() map[string]interface{} {
	return map[string]interface{}{
		"company_name":  "PRIME APPAREL EXPORTS PVT LTD",
		"address_line1": "Plot 12, Apparel Park",
		"city":          "Tiruppur",
		"country":       "India",
		"email":         "exports@primeapparel.in",
		"gstin":         "33AABCP1234F1Z5",
		"iec":           "0312345678",
		"bank": map[string]interface{}{
			"bank_name":      "State Bank of India",
			"account_name":   "Prime Apparel Exports",
			"account_number": "00000041234567890",
			"swift_code":     "SBININBB104",
		},
		"signatory_name": "A. Krishnan",
	}
}

func TestSettingsHandler(t *testing.T) {
	t.Run("defaults are served before any save", func(t *testing.T) {
		s := newSettingsTestServer(t)
		token := s.token(t, auth.RoleBuyer)

		w := doRequest(t, s.engine, http.MethodGet, "/api/v1/settings/company", token, nil)

		require.Equal(t, http.StatusOK, w.Code)
		data := decodeData(t, w)
		assert.Equal(t, true, data["is_default"])
		assert.Equal(t, "PRIME APPAREL EXPORTS", data["company_name"])
	})

	t.Run("admin updates the profile", func(t *testing.T) {
		s := newSettingsTestServer(t)
		token := s.token(t, auth.RoleAdmin)

		w := doRequest(t, s.engine, http.MethodPut, "/api/v1/settings/company", token, validSettingsBody())

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		data := decodeData(t, w)
		assert.Equal(t, false, data["is_default"])
		assert.Equal(t, "PRIME APPAREL EXPORTS PVT LTD", data["company_name"])

		read := doRequest(t, s.engine, http.MethodGet, "/api/v1/settings/company", token, nil)
		assert.Contains(t, read.Body.String(), "PRIME APPAREL EXPORTS PVT LTD")
	})

	t.Run("seller cannot update", func(t *testing.T) {
		s := newSettingsTestServer(t)
		token := s.token(t, auth.RoleSeller)

		w := doRequest(t, s.engine, http.MethodPut, "/api/v1/settings/company", token, validSettingsBody())
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing required fields fail validation", func(t *testing.T) {
		s := newSettingsTestServer(t)
		token := s.token(t, auth.RoleAdmin)

		body := validSettingsBody()
		delete(body, "company_name")
		delete(body, "bank")

		w := doRequest(t, s.engine, http.MethodPut, "/api/v1/settings/company", token, body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_VALIDATION")
		assert.Contains(t, w.Body.String(), "company_name")
	})
}
