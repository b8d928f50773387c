package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vyrodovalexey/avrouter/internal/observability"
	"github.com/vyrodovalexey/avrouter/internal/util"
)

// RequestIDHeader is the header name for request ID.
const RequestIDHeader = "X-Request-ID"

// Middleware wraps an http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so that the first one listed is the outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RequestID returns a middleware that attaches a request ID to each
// request. An ID supplied by the client is kept; otherwise a new one is
// generated.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			ctx := observability.ContextWithRequestID(r.Context(), requestID)
			r = r.WithContext(ctx)

			w.Header().Set(RequestIDHeader, requestID)

			next.ServeHTTP(w, r)
		})
	}
}

// AccessLog returns a middleware that logs one line per completed request.
func AccessLog(logger observability.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			capture := util.NewStatusCapturingResponseWriter(w)

			next.ServeHTTP(capture, r)

			logger.WithContext(r.Context()).Info("request completed",
				observability.String("method", r.Method),
				observability.String("path", r.URL.Path),
				observability.Int("status", capture.StatusCode),
				observability.Int("response_size", capture.BytesWritten),
				observability.Duration("latency", time.Since(start)),
			)
		})
	}
}

// Metrics returns a middleware that records request metrics. A nil Metrics
// disables recording.
func Metrics(m *observability.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			m.IncActive()
			defer m.DecActive()

			capture := util.NewStatusCapturingResponseWriter(w)
			next.ServeHTTP(capture, r)

			m.ObserveRequest(r.Method, capture.StatusCode, capture.BytesWritten, time.Since(start))
		})
	}
}
