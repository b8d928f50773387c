package router

import (
	"net/http"

	"github.com/vyrodovalexey/avrouter/internal/observability"
)

// Request is the transport-owned view of an incoming request. The router
// treats it as a single-use token: the handler resolving the request must
// call Respond exactly once.
type Request interface {
	// Method returns the HTTP method.
	Method() string

	// URI returns the raw request URI, possibly including a query string
	// or fragment.
	URI() string

	// Respond writes the response.
	Respond(status int, headers map[string]string, body []byte) error
}

// Handler processes a single request. It is expected to call Respond on the
// request before returning and reports an unrecoverable per-request failure
// by returning a non-nil error.
type Handler func(Request) error

// ErrorHandler receives a request together with the failure raised while
// handling it. It is expected to terminate the request itself.
type ErrorHandler func(Request, error)

// Route is a single registered route. Routes are immutable after
// registration.
type Route struct {
	Method  string
	Path    string
	Handler Handler

	segments []patternSegment
}

// Router matches requests against an ordered route table and dispatches to
// the first matching handler.
type Router struct {
	routes []*Route

	notFound         Handler
	methodNotAllowed Handler
	onError          ErrorHandler

	logger  observability.Logger
	metrics *Metrics
}

// Option is a functional option for configuring a Router.
type Option func(*Router)

// WithLogger sets the logger used for registration tracing and dispatch
// failures.
func WithLogger(logger observability.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics recorder for dispatch outcomes.
func WithMetrics(m *Metrics) Option {
	return func(r *Router) {
		r.metrics = m
	}
}

// New creates an empty Router with the built-in fallback handlers.
func New(opts ...Option) *Router {
	r := &Router{
		notFound:         defaultNotFound,
		methodNotAllowed: defaultMethodNotAllowed,
		logger:           observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Handle registers a route for the given method and path pattern. The path
// must be non-empty and start with "/"; a "**" segment must not be
// immediately followed by another "*" or "**" segment. Violations are
// reported as configuration errors and nothing is registered.
//
// Routes are appended in call order and never deduplicated: registering an
// equivalent method and path twice adds a second entry that can only win if
// the first stops matching.
func (r *Router) Handle(method, path string, handler Handler) error {
	segments, err := compilePath(path)
	if err != nil {
		return err
	}

	r.routes = append(r.routes, &Route{
		Method:   method,
		Path:     path,
		Handler:  handler,
		segments: segments,
	})

	r.logger.Debug("route registered",
		observability.String("method", method),
		observability.String("path", path),
	)

	return nil
}

// GET registers a route for the GET method.
func (r *Router) GET(path string, handler Handler) error {
	return r.Handle(http.MethodGet, path, handler)
}

// HEAD registers a route for the HEAD method.
func (r *Router) HEAD(path string, handler Handler) error {
	return r.Handle(http.MethodHead, path, handler)
}

// POST registers a route for the POST method.
func (r *Router) POST(path string, handler Handler) error {
	return r.Handle(http.MethodPost, path, handler)
}

// PUT registers a route for the PUT method.
func (r *Router) PUT(path string, handler Handler) error {
	return r.Handle(http.MethodPut, path, handler)
}

// DELETE registers a route for the DELETE method.
func (r *Router) DELETE(path string, handler Handler) error {
	return r.Handle(http.MethodDelete, path, handler)
}

// OPTIONS registers a route for the OPTIONS method.
func (r *Router) OPTIONS(path string, handler Handler) error {
	return r.Handle(http.MethodOptions, path, handler)
}

// PATCH registers a route for the PATCH method.
func (r *Router) PATCH(path string, handler Handler) error {
	return r.Handle(http.MethodPatch, path, handler)
}

// SetNotFoundHandler replaces the fallback invoked when no route's path
// matches the request.
func (r *Router) SetNotFoundHandler(handler Handler) {
	r.notFound = handler
}

// SetMethodNotAllowedHandler replaces the fallback invoked when at least one
// route's path matches the request but none of them matches its method.
func (r *Router) SetMethodNotAllowedHandler(handler Handler) {
	r.methodNotAllowed = handler
}

// SetErrorHandler sets the handler invoked with failures raised by routed or
// fallback handlers. When unset, Dispatch returns the failure to the caller
// instead.
func (r *Router) SetErrorHandler(handler ErrorHandler) {
	r.onError = handler
}

// Routes returns the registered routes in registration order.
func (r *Router) Routes() []*Route {
	routes := make([]*Route, len(r.routes))
	copy(routes, r.routes)
	return routes
}
