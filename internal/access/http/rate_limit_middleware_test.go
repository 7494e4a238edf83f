package http

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSendRateLimitMiddleware_AllowsRequestsWithinLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	logger := slog.Default()
	middleware := SendRateLimitMiddleware(10.0, 20, logger)

	router := gin.New()
	router.Use(middleware)
	router.POST("/send", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/send", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestSendRateLimitMiddleware_BlocksRequestsExceedingLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	logger := slog.Default()
	middleware := SendRateLimitMiddleware(1.0, 2, logger)

	router := gin.New()
	router.Use(middleware)
	router.POST("/send", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Burst capacity succeeds
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/send", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/send", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
	assert.Contains(t, w.Body.String(), "Too many verification requests from this IP")
}

func TestSendRateLimitMiddleware_IndependentLimitsPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	logger := slog.Default()
	middleware := SendRateLimitMiddleware(1.0, 1, logger)

	router := gin.New()
	router.Use(middleware)
	router.POST("/send", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// First IP consumes its burst
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/send", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.10")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/send", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.10")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// A different IP still has a full bucket
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/send", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.20")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
