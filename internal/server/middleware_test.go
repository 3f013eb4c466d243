package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"gymhub/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func serveOK(middleware gin.HandlerFunc) (*gin.Engine, func(method string) *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware)
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	do := func(method string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}
	return router, do
}

func TestMetricsMiddleware(t *testing.T) {
	_, do := serveOK(MetricsMiddleware())
	assert.Equal(t, http.StatusOK, do("GET").Code)
}

func TestRequestLoggingMiddleware(t *testing.T) {
	_, do := serveOK(RequestLoggingMiddleware())
	assert.Equal(t, http.StatusOK, do("GET").Code)
}

func TestRateLimitMiddleware_WithinBurst(t *testing.T) {
	_, do := serveOK(RateLimitMiddleware(2, 5))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do("GET").Code)
	}
}

func TestRateLimitMiddleware_BurstExceeded(t *testing.T) {
	_, do := serveOK(RateLimitMiddleware(1, 2))

	assert.Equal(t, http.StatusOK, do("GET").Code)
	assert.Equal(t, http.StatusOK, do("GET").Code)
	assert.Equal(t, http.StatusTooManyRequests, do("GET").Code)
}

func TestCorsMiddleware(t *testing.T) {
	_, do := serveOK(corsMiddleware())

	w := do("GET")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCorsMiddleware_OPTIONS(t *testing.T) {
	_, do := serveOK(corsMiddleware())
	assert.Equal(t, http.StatusNoContent, do("OPTIONS").Code)
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", Health)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
