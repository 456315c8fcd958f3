package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/menswear/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRouter_MountsVersionedAndExtraPrefixes(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.APIPrefix())

	ping := NewDomainGroup("ping", "/ping").GET("", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	old := NewDomainGroup("old", "").GET("/hello", func(c *gin.Context) { c.String(http.StatusOK, "hi") })
	r.Register(ping)
	r.Mount("/api/legacy", old)
	r.Mount("/api/legacy", NewDomainGroup("more", "/more").GET("", func(c *gin.Context) { c.Status(http.StatusAccepted) }))
	r.Setup()

	assert.Equal(t, "pong", serve(engine, http.MethodGet, "/api/v2/ping").Body.String())
	assert.Equal(t, "hi", serve(engine, http.MethodGet, "/api/legacy/hello").Body.String())
	assert.Equal(t, http.StatusAccepted, serve(engine, http.MethodGet, "/api/legacy/more").Code)
	assert.Len(t, r.mounts, 2)
}

func TestDomainGroup_MiddlewareAndSubgroups(t *testing.T) {
	engine := gin.New()
	var trail []string
	mark := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) { trail = append(trail, name) }
	}

	g := NewDomainGroup("orders", "/orders").Use(mark("group"))
	g.GET("", mark("list"))
	g.Group("admin", "/admin").Use(mark("admin")).DELETE("/:id", mark("delete"))
	g.RegisterRoutes(engine.Group("/api"))

	serve(engine, http.MethodGet, "/api/orders")
	assert.Equal(t, []string{"group", "list"}, trail)

	trail = nil
	serve(engine, http.MethodDelete, "/api/orders/admin/42")
	assert.Equal(t, []string{"group", "admin", "delete"}, trail)

	assert.Equal(t, "orders", g.Name())
	assert.Equal(t, "/orders", g.Prefix())
}

func TestChainDropsNil(t *testing.T) {
	h := func(c *gin.Context) {}
	assert.Len(t, chain(nil, h, nil, h), 2)
}

// deny aborts with status so tests can see which guard ran
func deny(status int) gin.HandlerFunc {
	return func(c *gin.Context) { c.AbortWithStatus(status) }
}

func installAll(t *testing.T, g Guards) *gin.Engine {
	t.Helper()
	engine := gin.New()
	h := Handlers{
		Auth:        handler.NewAuthHandler(nil),
		User:        handler.NewUserHandler(nil),
		Customer:    handler.NewCustomerHandler(nil, nil),
		Lead:        handler.NewLeadHandler(nil),
		Product:     handler.NewProductHandler(nil),
		Order:       handler.NewOrderHandler(nil),
		Appointment: handler.NewAppointmentHandler(nil),
		Dashboard:   handler.NewDashboardHandler(nil),
		Legacy:      handler.NewLegacyHandler(nil),
		System:      handler.NewSystemHandler(handler.SystemInfo{Version: "test"}),
	}
	require.NotPanics(t, func() { Install(NewRouter(engine), h, g) })
	return engine
}

func TestInstall_RouteTable(t *testing.T) {
	engine := installAll(t, Guards{
		Authenticate: deny(http.StatusUnauthorized),
		OptionalAuth: func(c *gin.Context) {},
		Staff:        deny(http.StatusForbidden),
		Admin:        deny(http.StatusForbidden),
	})

	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/refresh",
		"POST /api/v1/auth/logout",
		"GET /api/v1/auth/me",
		"PUT /api/v1/auth/password",
		"GET /api/v1/users",
		"DELETE /api/v1/users/:id",
		"GET /api/v1/customers/:id/orders",
		"POST /api/v1/leads/:id/convert",
		"GET /api/v1/products",
		"GET /api/v1/products/:id",
		"POST /api/v1/products/:id/variants/:variant_id/stock",
		"POST /api/v1/products/:id/images/upload-url",
		"POST /api/v1/orders/:id/status",
		"POST /api/v1/orders/:id/payment-intent",
		"POST /api/v1/payments/webhook",
		"POST /api/v1/appointments/book",
		"POST /api/v1/appointments/:id/status",
		"GET /api/v1/dashboard/export",
		"GET /api/v1/system/ping",
		"GET /api/legacy/products",
		"GET /api/legacy/products/:slug",
		"GET /api/legacy/customers/lookup",
		"POST /api/legacy/appointments/book",
		"POST /api/legacy/contact",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestInstall_Guards(t *testing.T) {
	engine := installAll(t, Guards{
		Authenticate: func(c *gin.Context) {},
		OptionalAuth: func(c *gin.Context) {},
		Staff:        deny(http.StatusForbidden),
		Admin:        deny(http.StatusTeapot),
	})

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/v1/customers", http.StatusForbidden},
		{http.MethodPost, "/api/v1/products", http.StatusForbidden},
		{http.MethodGet, "/api/v1/products/00000000-0000-0000-0000-000000000001/variants", http.StatusForbidden},
		{http.MethodGet, "/api/v1/appointments", http.StatusForbidden},
		{http.MethodGet, "/api/v1/dashboard/overview", http.StatusForbidden},
		{http.MethodGet, "/api/v1/users", http.StatusTeapot},
		{http.MethodGet, "/api/legacy/customers/lookup?email=a@b.test", http.StatusForbidden},
		{http.MethodGet, "/api/v1/system/ping", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, serve(engine, tt.method, tt.path).Code)
		})
	}
}

func TestInstall_LoginLimit(t *testing.T) {
	engine := installAll(t, Guards{
		Authenticate: deny(http.StatusUnauthorized),
		OptionalAuth: func(c *gin.Context) {},
		Staff:        deny(http.StatusForbidden),
		Admin:        deny(http.StatusForbidden),
		LoginLimit:   deny(http.StatusTooManyRequests),
	})

	assert.Equal(t, http.StatusTooManyRequests, serve(engine, http.MethodPost, "/api/v1/auth/login").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/v1/auth/me").Code)
}
