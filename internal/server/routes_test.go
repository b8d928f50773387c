package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/avrouter/internal/config"
	"github.com/vyrodovalexey/avrouter/internal/observability"
	"github.com/vyrodovalexey/avrouter/internal/util"
)

func TestBuildRouter(t *testing.T) {
	t.Parallel()

	routes := []config.Route{
		{
			Name: "health", Method: "get", Path: "/healthz",
			Response: config.Response{
				Status:  http.StatusOK,
				Headers: map[string]string{"Content-Type": "application/json"},
				Body:    `{"status":"ok"}`,
			},
		},
		{
			Name: "catch-all", Method: "GET", Path: "/static/**",
			Response: config.Response{Body: "static"},
		},
	}

	rt, err := BuildRouter(routes, observability.NopLogger(), nil)
	require.NoError(t, err)
	require.Len(t, rt.Routes(), 2)
	assert.Equal(t, http.MethodGet, rt.Routes()[0].Method, "methods are upper-cased")

	rec := httptest.NewRecorder()
	req := newHTTPRequest(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, rt.Dispatch(req))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, `{"status":"ok"}`, rec.Body.String())
}

func TestBuildRouter_Defaults(t *testing.T) {
	t.Parallel()

	routes := []config.Route{
		{Name: "plain", Method: "GET", Path: "/plain", Response: config.Response{Body: "ok"}},
	}
	rt, err := BuildRouter(routes, observability.NopLogger(), nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := newHTTPRequest(rec, httptest.NewRequest(http.MethodGet, "/plain", nil))
	require.NoError(t, rt.Dispatch(req))

	// Status and content type fall back to 200 / text/plain.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestBuildRouter_BadPattern(t *testing.T) {
	t.Parallel()

	routes := []config.Route{
		{Name: "broken", Method: "GET", Path: "/a/**/*"},
	}
	_, err := BuildRouter(routes, observability.NopLogger(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrConfigInvalid))
	assert.Contains(t, err.Error(), "broken")
}
