package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"svgshare/internal/config"
	"svgshare/internal/models"
	"svgshare/internal/ratelimit"

	"github.com/stretchr/testify/require"
)

func TestRoutes_Pages(t *testing.T) {
	env := newTestEnv(t)

	testCases := []struct {
		path     string
		wantBody string
	}{
		{"/", "<html>index</html>"},
		{"/dashboard", "<html>dashboard</html>"},
		{"/admin", "<html>admin</html>"},
		{"/s/abc123", "<html>share</html>"},
		{"/js/dashboard.js", "console.log('dashboard')"},
		{"/css/style.css", "body{}"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			rr := env.do(t, httptest.NewRequest(http.MethodGet, tc.path, nil), nil)
			require.Equal(t, http.StatusOK, rr.Code)
			require.Equal(t, tc.wantBody, rr.Body.String())
		})
	}
}

func TestRoutes_NotFound(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", models.RoleUser, models.StatusActive)
	admin := env.createUser(t, "root", models.RoleAdmin, models.StatusActive)

	for _, path := range []string{"/missing.js", "/js", "/js/", "/auth/unknown"} {
		rr := env.do(t, httptest.NewRequest(http.MethodGet, path, nil), nil)
		require.Equal(t, http.StatusNotFound, rr.Code, path)
	}

	// Nieznane ścieżki API nigdy nie trafiają do assetów
	for _, path := range []string{"/api/unknown", "/api/index.html"} {
		rr := env.do(t, httptest.NewRequest(http.MethodGet, path, nil), user)
		require.Equal(t, http.StatusNotFound, rr.Code, path)
		require.Equal(t, "Not Found", strings.TrimSpace(rr.Body.String()))
	}

	rr := env.do(t, httptest.NewRequest(http.MethodGet, "/api/admin/nothing", nil), admin)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "Not Found", strings.TrimSpace(rr.Body.String()))
}

func TestRoutes_Health(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, httptest.NewRequest(http.MethodGet, "/health", nil), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	env.store.pingErr = errors.New("connection refused")
	rr = env.do(t, httptest.NewRequest(http.MethodGet, "/health", nil), nil)
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestRoutes_Metrics(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", models.RoleUser, models.StatusActive)
	uploadFile(t, env, user, "a.svg", svgOfSize(t, 1, 1, 300))

	rr := env.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil), nil)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	require.Contains(t, body, `http_requests_total{method="POST",route="/api/files",status="201"} 1`)
	require.Contains(t, body, `svgshare_uploads_total{result="created"} 1`)
	require.Contains(t, body, "http_request_duration_seconds")
}

func TestRoutes_RequestIDHeader(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rr := env.do(t, req, nil)

	require.Equal(t, http.StatusOK, rr.Code)
}

func TestRoutes_RateLimitedPublicRoutes(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(0.001, 1)
	t.Cleanup(limiter.Close)
	env := newTestEnv(t, withLimiter(limiter))

	rr := env.do(t, httptest.NewRequest(http.MethodGet, "/api/s/nope", nil), nil)
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.do(t, httptest.NewRequest(http.MethodGet, "/raw/nope", nil), nil)
	require.Equal(t, http.StatusTooManyRequests, rr.Code)

	// Strony UI nie są limitowane
	rr = env.do(t, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestRoutes_CORS(t *testing.T) {
	env := newTestEnv(t, withConfig(func(c *config.Config) {
		c.CORS.AllowedOrigins = []string{"https://app.example"}
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/files", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := env.do(t, req, nil)

	require.Equal(t, "https://app.example", rr.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}
