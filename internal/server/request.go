// Package server adapts the router to net/http: it wraps incoming requests
// into the router's Request abstraction, runs the middleware chain, and
// owns the HTTP listener lifecycle.
package server

import (
	"errors"
	"net/http"
)

// ErrAlreadyResponded is returned by Respond when a response has already
// been written for the request.
var ErrAlreadyResponded = errors.New("response already written")

// httpRequest adapts a net/http request/response pair to the router's
// Request interface. It is single-use: Respond may succeed once.
type httpRequest struct {
	req       *http.Request
	w         http.ResponseWriter
	responded bool
}

func newHTTPRequest(w http.ResponseWriter, req *http.Request) *httpRequest {
	return &httpRequest{req: req, w: w}
}

// Method returns the HTTP method.
func (r *httpRequest) Method() string {
	return r.req.Method
}

// URI returns the raw request URI as sent by the client, including any
// query string. The router truncates it for matching.
func (r *httpRequest) URI() string {
	return r.req.RequestURI
}

// Respond writes the response.
func (r *httpRequest) Respond(status int, headers map[string]string, body []byte) error {
	if r.responded {
		return ErrAlreadyResponded
	}
	r.responded = true

	for k, v := range headers {
		r.w.Header().Set(k, v)
	}
	r.w.WriteHeader(status)
	if len(body) > 0 {
		if _, err := r.w.Write(body); err != nil {
			return err
		}
	}
	return nil
}
