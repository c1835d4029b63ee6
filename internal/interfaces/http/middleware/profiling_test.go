package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfilingWithConfig_AttachesLabels(t *testing.T) {
	router := gin.New()
	router.Use(Profiling())

	var labels map[string]string
	router.GET("/api/orders/:order_number", func(c *gin.Context) {
		labels = map[string]string{}
		pprof.ForLabels(c.Request.Context(), func(k, v string) bool {
			labels[k] = v
			return true
		})
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders/ORD20240101120000123456", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "orders", labels["controller"])
	assert.Equal(t, "/api/orders/:order_number", labels["route"])
	assert.Equal(t, http.MethodGet, labels["method"])
	assert.NotContains(t, labels, "order_number")
}

func TestProfilingWithConfig_SkipsAndDisabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  ProfilingConfig
		path string
	}{
		{"disabled", ProfilingConfig{Enabled: false}, "/api/cart"},
		{"skip path", DefaultProfilingConfig(), "/api/health"},
		{"skip prefix", DefaultProfilingConfig(), "/swagger/index.html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(ProfilingWithConfig(tt.cfg))

			labelled := false
			router.GET(tt.path, func(c *gin.Context) {
				pprof.ForLabels(c.Request.Context(), func(string, string) bool {
					labelled = true
					return false
				})
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.False(t, labelled)
		})
	}
}

func TestControllerFromRoute(t *testing.T) {
	tests := []struct {
		route  string
		expect string
	}{
		{"/api/cart", "cart"},
		{"/api/cart/items/:product_id", "cart"},
		{"/api/addresses/:id/default", "addresses"},
		{"/api/orders/:order_number/cancel", "orders"},
		{"/api/admin/orders", "admin_orders"},
		{"/api/admin/orders/:order_number/status", "admin_orders"},
		{"/api/payments/verify", "payments"},
		{"/api/admin", "admin"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			assert.Equal(t, tt.expect, controllerFromRoute(tt.route))
		})
	}
}
