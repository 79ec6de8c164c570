package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func ok(c *gin.Context) {
	c.Status(http.StatusOK)
}

func serve(t *testing.T, engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRouter_Setup(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("mounts groups under the version prefix", func(t *testing.T) {
		engine := gin.New()

		docs := NewDomainGroup("documents", "/documents")
		docs.GET("", ok)
		docs.GET("/:id/download", ok)

		NewRouter(engine, WithAPIVersion("v1")).Register(docs).Setup()

		assert.Equal(t, http.StatusOK, serve(t, engine, http.MethodGet, "/api/v1/documents").Code)
		assert.Equal(t, http.StatusOK, serve(t, engine, http.MethodGet, "/api/v1/documents/abc/download").Code)
		assert.Equal(t, http.StatusNotFound, serve(t, engine, http.MethodGet, "/documents").Code)
	})

	t.Run("custom api version", func(t *testing.T) {
		engine := gin.New()

		group := NewDomainGroup("settings", "/settings")
		group.GET("/company", ok)

		NewRouter(engine, WithAPIVersion("v2")).Register(group).Setup()

		assert.Equal(t, http.StatusOK, serve(t, engine, http.MethodGet, "/api/v2/settings/company").Code)
		assert.Equal(t, http.StatusNotFound, serve(t, engine, http.MethodGet, "/api/v1/settings/company").Code)
	})
}

func TestDomainGroup(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("group middleware runs on every route", func(t *testing.T) {
		engine := gin.New()
		var seen []string

		group := NewDomainGroup("orders", "/orders")
		group.Use(func(c *gin.Context) {
			seen = append(seen, c.Request.URL.Path)
			c.Next()
		})
		group.GET("", ok)
		group.POST("/:id/documents/pi", ok)

		NewRouter(engine).Register(group).Setup()

		serve(t, engine, http.MethodGet, "/api/v1/orders")
		serve(t, engine, http.MethodPost, "/api/v1/orders/1/documents/pi")

		assert.Equal(t, []string{"/api/v1/orders", "/api/v1/orders/1/documents/pi"}, seen)
	})

	t.Run("route level middleware can abort", func(t *testing.T) {
		engine := gin.New()

		deny := func(c *gin.Context) {
			c.AbortWithStatus(http.StatusForbidden)
		}

		group := NewDomainGroup("documents", "/documents")
		group.GET("/open", ok)
		group.GET("/locked", deny, ok)

		NewRouter(engine).Register(group).Setup()

		assert.Equal(t, http.StatusOK, serve(t, engine, http.MethodGet, "/api/v1/documents/open").Code)
		assert.Equal(t, http.StatusForbidden, serve(t, engine, http.MethodGet, "/api/v1/documents/locked").Code)
	})

	t.Run("nested groups inherit the prefix", func(t *testing.T) {
		engine := gin.New()

		parent := NewDomainGroup("orders", "/orders")
		child := parent.Group("order-documents", "/:id/documents")
		child.GET("", ok)

		NewRouter(engine).Register(parent).Setup()

		assert.Equal(t, http.StatusOK, serve(t, engine, http.MethodGet, "/api/v1/orders/1/documents").Code)
	})

	t.Run("accessors", func(t *testing.T) {
		group := NewDomainGroup("documents", "/documents")
		assert.Equal(t, "documents", group.Name())
		assert.Equal(t, "/documents", group.Prefix())
	})
}
