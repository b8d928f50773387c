package router

import (
	"net/http"
	"time"

	"github.com/vyrodovalexey/avrouter/internal/observability"
	"github.com/vyrodovalexey/avrouter/internal/util"
)

// Default fallback response bodies.
const (
	notFoundBody         = "<h1>Not Found</h1>"
	methodNotAllowedBody = "<h1>Method Not Allowed</h1>"
)

// Dispatch resolves a request to a handler and invokes it.
//
// Routes are tried in registration order; the first route matching both
// path and method wins and no further routes are examined. A route whose
// path matches but whose method differs is remembered and scanning
// continues, so a later route may still match outright. When the scan ends
// without a full match, the method-not-allowed fallback fires if any path
// matched, the not-found fallback otherwise.
//
// Failures raised by the matched handler or by a fallback handler are
// routed to the configured error handler. Without one, the failure is
// returned to the caller unchanged.
func (r *Router) Dispatch(req Request) error {
	start := time.Now()
	segs := splitRequestPath(req.URI())

	var handler Handler
	outcome := outcomeMatched
	pathMatched := false
	for _, rt := range r.routes {
		if !rt.matchPath(segs) {
			continue
		}
		if rt.Method != req.Method() {
			pathMatched = true
			continue
		}
		handler = rt.Handler
		break
	}

	if handler == nil {
		if pathMatched {
			handler = r.methodNotAllowed
			outcome = outcomeMethodNotAllowed
		} else {
			handler = r.notFound
			outcome = outcomeNotFound
		}
	}

	err := invoke(handler, req)
	if err != nil {
		outcome = outcomeHandlerError
	}
	r.metrics.observe(req.Method(), outcome, time.Since(start))

	if err == nil {
		return nil
	}

	if r.onError != nil {
		r.logger.Debug("routing failure to error handler",
			observability.String("method", req.Method()),
			observability.String("uri", req.URI()),
			observability.Error(err),
		)
		r.onError(req, err)
		return nil
	}

	return err
}

// invoke runs a handler, converting a panic into an error so a failing
// handler is contained at the dispatch boundary.
func invoke(handler Handler, req Request) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = util.NewPanicError(v)
		}
	}()
	return handler(req)
}

func defaultNotFound(req Request) error {
	return req.Respond(http.StatusNotFound,
		map[string]string{"Content-Type": "text/html"},
		[]byte(notFoundBody),
	)
}

func defaultMethodNotAllowed(req Request) error {
	return req.Respond(http.StatusMethodNotAllowed,
		map[string]string{"Content-Type": "text/html"},
		[]byte(methodNotAllowedBody),
	)
}
