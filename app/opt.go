package app

import (
	"io"
	"net/http"

	"github.com/myschool/campus/http/middleware"
	"github.com/myschool/campus/http/session"
	"github.com/myschool/campus/postgres"
	"github.com/myschool/campus/professor"
)

// An Option configures an *App before New builds its components.
type Option func(*App)

// WithDB uses db instead of connecting with Config.Database.
// The caller owns migrating db; Shutdown still closes it.
func WithDB(db *postgres.DB) Option {
	return func(a *App) { a.db = db }
}

// WithIdempotencyCache replaces the cache replaying retried POST requests.
func WithIdempotencyCache(c middleware.IdempotencyCacher) Option {
	return func(a *App) { a.idem = c }
}

// WithLogOutput writes app and HTTP logs to w instead of os.Stdout.
func WithLogOutput(w io.Writer) Option {
	return func(a *App) {
		if w != nil {
			a.out = w
		}
	}
}

// WithProfessorStore serves the professor routes from store,
// skipping any database connection.
func WithProfessorStore(store professor.Store) Option {
	return func(a *App) { a.profs = store }
}

// WithServer replaces the default [*http.Server];
// its Handler is overwritten by New.
func WithServer(srv *http.Server) Option {
	return func(a *App) { a.srv = srv }
}

// WithSessionStore replaces the session store built from Config.
func WithSessionStore(store session.SessionStorer) Option {
	return func(a *App) { a.sessions = store }
}
