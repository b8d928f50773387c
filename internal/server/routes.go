package server

import (
	"net/http"
	"strings"

	"github.com/vyrodovalexey/avrouter/internal/config"
	"github.com/vyrodovalexey/avrouter/internal/observability"
	"github.com/vyrodovalexey/avrouter/internal/router"
	"github.com/vyrodovalexey/avrouter/internal/util"
)

// BuildRouter constructs a route table from declarative route
// configuration. Each configured route serves its static response.
func BuildRouter(
	routes []config.Route,
	logger observability.Logger,
	metrics *router.Metrics,
) (*router.Router, error) {
	rt := router.New(
		router.WithLogger(logger),
		router.WithMetrics(metrics),
	)

	for _, rc := range routes {
		handler := staticResponseHandler(rc.Response)
		if err := rt.Handle(strings.ToUpper(rc.Method), rc.Path, handler); err != nil {
			return nil, util.WrapError(err, "route "+rc.Name)
		}
	}

	return rt, nil
}

// staticResponseHandler returns a handler serving a fixed response.
func staticResponseHandler(resp config.Response) router.Handler {
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}

	headers := make(map[string]string, len(resp.Headers)+1)
	for k, v := range resp.Headers {
		headers[k] = v
	}
	if _, ok := headers["Content-Type"]; !ok {
		headers["Content-Type"] = "text/plain; charset=utf-8"
	}

	body := []byte(resp.Body)
	return func(req router.Request) error {
		return req.Respond(status, headers, body)
	}
}
