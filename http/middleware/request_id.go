package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/myschool/campus"
)

// RequestIDHeader names the response header echoing the request ID.
const RequestIDHeader = "X-Request-ID"

// RequestID adds a uuid to the request context under campus.RequestIDKey
// and echoes it in the X-Request-ID response header.
func RequestID() Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			w.Header().Set(RequestIDHeader, id)
			ctx := context.WithValue(r.Context(), campus.RequestIDKey, id)
			h.ServeHTTP(w, r.Clone(ctx))
		})
	}
}
