package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID(t *testing.T) {
	t.Run("generates an ID when none is supplied", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		router.ServeHTTP(w, req)

		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("propagates a supplied ID", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "req-abc")
		router.ServeHTTP(w, req)

		assert.Equal(t, "req-abc", w.Header().Get("X-Request-ID"))
	})
}

func TestCORSWithConfig(t *testing.T) {
	newRouter := func(cfg CORSConfig) *gin.Engine {
		router := gin.New()
		router.Use(CORSWithConfig(cfg))
		router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
		return router
	}

	t.Run("allows whitelisted origin", func(t *testing.T) {
		router := newRouter(CORSConfig{
			AllowOrigins: []string{"http://app.local"},
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Content-Type"},
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://app.local")
		router.ServeHTTP(w, req)

		assert.Equal(t, "http://app.local", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("rejects unknown origin", func(t *testing.T) {
		router := newRouter(CORSConfig{AllowOrigins: []string{"http://app.local"}})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://evil.local")
		router.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("answers preflight with 204", func(t *testing.T) {
		router := newRouter(DefaultCORSConfig())

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "http://app.local")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
