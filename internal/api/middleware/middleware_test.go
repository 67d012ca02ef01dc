package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/chatwire/backend/internal/infrastructure/config"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestPolicyWildcardAllowsAll(t *testing.T) {
	p := NewPolicy(config.CORSConfig{Origins: []string{"*"}})

	assert.True(t, p.AllowOrigin("https://anything.example.com"))
	assert.True(t, p.AllowOrigin(""))
}

func TestPolicyClosedSet(t *testing.T) {
	p := NewPolicy(config.CORSConfig{
		Origins: []string{"https://app.example.com", "https://admin.example.com"},
	})

	assert.True(t, p.AllowOrigin("https://app.example.com"))
	assert.False(t, p.AllowOrigin("https://evil.example.com"))
	assert.False(t, p.AllowOrigin(""), "missing Origin is not a member without the wildcard")
}

func TestCORSRejectionLeaksNothing(t *testing.T) {
	router := setupTestRouter()
	router.Use(CORS(NewPolicy(config.CORSConfig{
		Origins: []string{"https://app.example.com"},
		Methods: []string{"GET", "POST"},
	})))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest("OPTIONS", "/test", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NotContains(t, w.Body.String(), "app.example.com")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	router := setupTestRouter()
	router.Use(CORS(NewPolicy(config.CORSConfig{
		Origins:     []string{"https://app.example.com"},
		Methods:     []string{"GET", "POST"},
		Credentials: true,
	})))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Origin", "https://app.example.com")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestBodyLimitRejectsOversized(t *testing.T) {
	router := setupTestRouter()
	router.Use(BodyLimit(64))
	router.POST("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "reached handler")
	})

	req := httptest.NewRequest("POST", "/test", strings.NewReader(strings.Repeat("x", 128)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.NotContains(t, w.Body.String(), "reached handler")
	assert.Contains(t, w.Body.String(), `"status":413`)
}

func TestBodyLimitPassesSmallBodies(t *testing.T) {
	router := setupTestRouter()
	router.Use(BodyLimit(MaxBodyBytes))
	router.POST("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest("POST", "/test", strings.NewReader("small"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestID(t *testing.T) {
	router := setupTestRouter()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	// Inbound id is preserved.
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get(RequestIDHeader))
}

func TestRateLimit(t *testing.T) {
	router := setupTestRouter()
	router.Use(RateLimit(config.RateLimitConfig{RequestsPerSecond: 1, Burst: 1}))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest("GET", "/test", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest("GET", "/test", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
