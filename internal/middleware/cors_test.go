package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"pinlock/internal/middleware"
)

func corsTestHandler() http.Handler {
	config := middleware.DefaultCORSConfig([]string{"tauri://localhost", "http://localhost:3000"})
	return middleware.CORS(config)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCORS_AllowedOrigin(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "tauri://localhost")

	w := httptest.NewRecorder()
	corsTestHandler().ServeHTTP(w, req)

	assert.Equal(t, "tauri://localhost", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")

	w := httptest.NewRecorder()
	corsTestHandler().ServeHTTP(w, req)

	// Fails closed: no CORS headers for unknown origins
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	// The request itself still goes through; same-machine callers
	// without an Origin header are unaffected by CORS
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS_Preflight(t *testing.T) {
	req := httptest.NewRequest("OPTIONS", "/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")

	w := httptest.NewRecorder()
	corsTestHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}
