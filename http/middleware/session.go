package middleware

import (
	"net/http"

	"github.com/myschool/campus/http/session"
	"github.com/myschool/campus/logger"
)

// InjectSession stores the session associated with the *http.Request in *http.Request.Context.
//
// A session that cannot be decoded is replaced with a fresh one.
//
// If store is nil, NoopAdapter returns and this middleware does nothing.
func InjectSession(store session.SessionStorer, l logger.Logger) Adapter {
	if store == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := store.GetSession(r)
			if err != nil && l != nil {
				l.Warn("discarding undecodable session", &logger.LogContext{Error: err, Request: r})
			}

			h.ServeHTTP(w, r.Clone(session.NewContext(r.Context(), s)))
		})
	}
}
