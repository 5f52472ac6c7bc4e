package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ok(body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, body)
	}
}

func do(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRouterMountsUnderVersionPrefix(t *testing.T) {
	engine := gin.New()

	g := NewDomainGroup("/products")
	g.GET("", ok("list"))

	NewRouter(engine).Register(g).Setup()

	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/api/v1/products").Code)
	assert.Equal(t, http.StatusNotFound, do(engine, http.MethodGet, "/products").Code,
		"routes only exist under the version prefix")
}

func TestRouterCustomVersion(t *testing.T) {
	engine := gin.New()

	g := NewDomainGroup("/products")
	g.GET("", ok("list"))

	NewRouter(engine, WithAPIVersion("v2")).Register(g).Setup()

	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/api/v2/products").Code)
	assert.Equal(t, http.StatusNotFound, do(engine, http.MethodGet, "/api/v1/products").Code)
}

func TestRouterRegisterChains(t *testing.T) {
	engine := gin.New()

	products := NewDomainGroup("/products")
	products.GET("", ok("products"))
	stores := NewDomainGroup("/stores")
	stores.GET("", ok("stores"))

	NewRouter(engine).
		Register(products).
		Register(stores).
		Setup()

	assert.Equal(t, "products", do(engine, http.MethodGet, "/api/v1/products").Body.String())
	assert.Equal(t, "stores", do(engine, http.MethodGet, "/api/v1/stores").Body.String())
}

func TestDomainGroupAllVerbs(t *testing.T) {
	engine := gin.New()

	g := NewDomainGroup("/items")
	g.GET("/:id", ok("get")).
		POST("", ok("post")).
		PUT("/:id", ok("put")).
		PATCH("/:id", ok("patch")).
		DELETE("/:id", ok("delete"))

	NewRouter(engine).Register(g).Setup()

	cases := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/api/v1/items/1", "get"},
		{http.MethodPost, "/api/v1/items", "post"},
		{http.MethodPut, "/api/v1/items/1", "put"},
		{http.MethodPatch, "/api/v1/items/1", "patch"},
		{http.MethodDelete, "/api/v1/items/1", "delete"},
	}
	for _, tc := range cases {
		w := do(engine, tc.method, tc.path)
		require.Equal(t, http.StatusOK, w.Code, tc.method)
		assert.Equal(t, tc.want, w.Body.String(), tc.method)
	}
}

func TestDomainGroupMiddlewareOrder(t *testing.T) {
	engine := gin.New()

	var trace []string
	mark := func(label string) gin.HandlerFunc {
		return func(c *gin.Context) {
			trace = append(trace, label)
			c.Next()
		}
	}

	g := NewDomainGroup("/guarded")
	g.Use(mark("group"))
	g.GET("", mark("route"), ok("done"))

	NewRouter(engine).Register(g).Setup()

	require.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/api/v1/guarded").Code)
	assert.Equal(t, []string{"group", "route"}, trace, "group middleware runs before route handlers")
}

func TestDomainGroupMiddlewareAborts(t *testing.T) {
	engine := gin.New()

	deny := func(c *gin.Context) {
		c.AbortWithStatus(http.StatusForbidden)
	}

	g := NewDomainGroup("/staff")
	g.Use(deny)
	g.GET("", ok("secret"))

	NewRouter(engine).Register(g).Setup()

	w := do(engine, http.MethodGet, "/api/v1/staff")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestDomainGroupPerRouteHandlers(t *testing.T) {
	engine := gin.New()

	requireStaff := func(c *gin.Context) {
		if c.GetHeader("X-Role") != "staff" {
			c.AbortWithStatus(http.StatusForbidden)
		}
	}

	g := NewDomainGroup("/orders")
	g.GET("/mine", ok("mine")).
		POST("/:id/ship", requireStaff, ok("shipped"))

	NewRouter(engine).Register(g).Setup()

	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/api/v1/orders/mine").Code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/1/ship", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code, "per-route middleware gates only its route")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/orders/1/ship", nil)
	req.Header.Set("X-Role", "staff")
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
