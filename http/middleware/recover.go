package middleware

import (
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/myschool/campus"
)

// ReportPanic recovers panics raised while serving a request
// and renders them as Runtime errors through rp.
//
// Outside of development, and when a Sentry client is initialized,
// the panic is reported to Sentry before being rendered.
func ReportPanic(env campus.Environment, rp ErrResponder) Adapter {
	var sh *sentryhttp.Handler
	if !env.IsDevelopment() && sentry.CurrentHub().Client() != nil {
		sh = sentryhttp.New(sentryhttp.Options{Repanic: true})
	}

	return func(h http.Handler) http.Handler {
		inner := h
		if sh != nil {
			inner = sh.Handle(h)
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}

				rp.Err(w, r, campus.NewRuntime(err.Error()))
			}()

			inner.ServeHTTP(w, r)
		})
	}
}
