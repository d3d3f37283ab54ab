package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newRateLimitedRouter(window time.Duration, hits *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimit(window))
	router.GET("/limited", func(c *gin.Context) {
		*hits++
		c.Status(http.StatusOK)
	})
	return router
}

func doGet(router *gin.Engine, path string) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "203.0.113.9:1234"
	router.ServeHTTP(w, req)
}

func TestRateLimitBlocksWithinWindow(t *testing.T) {
	hits := 0
	router := newRateLimitedRouter(time.Minute, &hits)

	doGet(router, "/limited")
	doGet(router, "/limited")
	require.Equal(t, 1, hits)
}

func TestRateLimitAllowsAfterWindow(t *testing.T) {
	hits := 0
	router := newRateLimitedRouter(20*time.Millisecond, &hits)

	doGet(router, "/limited")
	time.Sleep(50 * time.Millisecond)
	doGet(router, "/limited")
	require.Equal(t, 2, hits)
}

func TestRateLimitDisabledWithoutWindow(t *testing.T) {
	hits := 0
	router := newRateLimitedRouter(0, &hits)

	doGet(router, "/limited")
	doGet(router, "/limited")
	require.Equal(t, 2, hits)
}
