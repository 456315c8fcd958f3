package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metricsRouter(t *testing.T) (*gin.Engine, *HTTPMetrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	r := gin.New()
	r.Use(m.Middleware("/health"))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/products/:id", func(c *gin.Context) { c.String(http.StatusOK, "shirt") })
	r.POST("/orders", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.GET("/metrics", MetricsHandler(reg))
	return r, m, reg
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, rd))
	return w
}

func TestHTTPMetrics_CountsByRouteTemplate(t *testing.T) {
	r, m, _ := metricsRouter(t)

	serve(r, http.MethodGet, "/products/1", "")
	serve(r, http.MethodGet, "/products/2", "")
	serve(r, http.MethodPost, "/orders", `{"items":[]}`)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/products/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("POST", "/orders", "201")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))
}

func TestHTTPMetrics_UnmatchedAndSkipped(t *testing.T) {
	r, m, _ := metricsRouter(t)

	serve(r, http.MethodGet, "/nope/123", "")
	serve(r, http.MethodGet, "/health", "")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", unmatchedRoute, "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/health", "200")))
}

func TestHTTPMetrics_Histograms(t *testing.T) {
	r, m, _ := metricsRouter(t)

	serve(r, http.MethodPost, "/orders", `{"items":[1,2,3]}`)
	serve(r, http.MethodGet, "/products/1", "")

	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
	assert.Equal(t, 1, testutil.CollectAndCount(m.requestSize))
	assert.Equal(t, 1, testutil.CollectAndCount(m.responseSize))
}

func TestMetricsHandler_Exposition(t *testing.T) {
	r, _, _ := metricsRouter(t)
	serve(r, http.MethodGet, "/products/9", "")

	w := serve(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "menswear_http_requests_total")
	assert.Contains(t, body, `route="/products/:id"`)
}
