package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success_RecordHTTPMetrics", func(t *testing.T) {
		provider, err := NewProvider("accessd_test")
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, provider.Shutdown(context.Background()))
		}()

		middleware := HTTPMetricsMiddleware(provider.MeterProvider(), "accessd_test")

		router := gin.New()
		router.Use(middleware)
		router.POST("/v1/access/authorize", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "authenticated"})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/access/authorize", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Success_UnmatchedRouteStillRecorded", func(t *testing.T) {
		provider, err := NewProvider("accessd_test")
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, provider.Shutdown(context.Background()))
		}()

		middleware := HTTPMetricsMiddleware(provider.MeterProvider(), "accessd_test")

		router := gin.New()
		router.Use(middleware)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/no/such/route", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRoutePattern(t *testing.T) {
	assert.Equal(t, "/v1/access/authorize", routePattern("/v1/access/authorize"))
	assert.Equal(t, "unknown", routePattern(""))
}
