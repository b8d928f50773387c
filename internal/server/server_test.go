package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/avrouter/internal/config"
	"github.com/vyrodovalexey/avrouter/internal/observability"
	"github.com/vyrodovalexey/avrouter/internal/router"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Server.Address = "127.0.0.1:0"
	cfg.Routes = []config.Route{
		{
			Name: "hello", Method: "GET", Path: "/hello",
			Response: config.Response{Status: http.StatusOK, Body: "hello"},
		},
	}
	return cfg
}

func testServer(t *testing.T, cfg *config.Config, opts ...ServerOption) *Server {
	t.Helper()
	rt, err := BuildRouter(cfg.Routes, observability.NopLogger(), nil)
	require.NoError(t, err)
	return New(cfg, rt, observability.NopLogger(), opts...)
}

func TestServer_ServesRoute(t *testing.T) {
	t.Parallel()

	s := testServer(t, testConfig())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hello", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestServer_NotFound(t *testing.T) {
	t.Parallel()

	s := testServer(t, testConfig())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "text/html", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<h1>Not Found</h1>", rec.Body.String())
}

func TestServer_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	s := testServer(t, testConfig())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/hello", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "<h1>Method Not Allowed</h1>", rec.Body.String())
}

func TestServer_HandlerFailureBecomes500(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	rt := router.New()
	require.NoError(t, rt.GET("/fail", func(router.Request) error {
		return errors.New("backend exploded")
	}))
	s := New(cfg, rt, observability.NopLogger())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, internalErrorBody, rec.Body.String())
}

func TestServer_HandlerFailureAfterRespondKeepsResponse(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	rt := router.New()
	require.NoError(t, rt.GET("/half", func(req router.Request) error {
		if err := req.Respond(http.StatusAccepted, nil, []byte("queued")); err != nil {
			return err
		}
		return errors.New("cleanup failed")
	}))
	s := New(cfg, rt, observability.NopLogger())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/half", nil))

	// The response already written wins; no 500 is layered on top.
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "queued", rec.Body.String())
}

func TestServer_Swap(t *testing.T) {
	t.Parallel()

	s := testServer(t, testConfig())

	replacement := router.New()
	require.NoError(t, replacement.GET("/hello", func(req router.Request) error {
		return req.Respond(http.StatusOK, nil, []byte("replaced"))
	}))
	s.Swap(replacement)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hello", nil))
	assert.Equal(t, "replaced", rec.Body.String())
}

func TestServer_MetricsEndpoint(t *testing.T) {
	t.Parallel()

	m := observability.NewMetrics("srvtest")
	s := testServer(t, testConfig(), WithMetrics(m))

	// Generate one request so counters exist.
	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/hello", nil))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "srvtest_requests_total")
}

func TestServer_StartAndShutdown(t *testing.T) {
	t.Parallel()

	s := testServer(t, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	// Give the listener a moment, then trigger graceful shutdown.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
