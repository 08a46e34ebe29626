package middleware

import (
	"net/http"

	"github.com/myschool/campus/http/resp"
)

// An Adapter allows chaining middlewares together.
type Adapter func(http.Handler) http.Handler

// An ErrResponder renders an error as the response to a request.
// [*resp.Responder] is one.
type ErrResponder interface {
	Err(w http.ResponseWriter, r *http.Request, err error, opts ...resp.Fn)
}

// Chain glues the set of adapters to the handler.
func Chain(handler http.Handler, adapters ...Adapter) http.Handler {
	// NOTE: Loop in reverse to preserve middleware order
	for i := len(adapters) - 1; i >= 0; i-- {
		handler = adapters[i](handler)
	}

	return handler
}

// NoopAdapter passes the request through untouched.
func NoopAdapter(h http.Handler) http.Handler { return h }
