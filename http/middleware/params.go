package middleware

import (
	"net/http"

	"github.com/myschool/campus/http/req"
	"github.com/myschool/campus/logger"
)

// InjectParams reads the parameters of the *http.Request and stores them
// in *http.Request.Context for handlers to retrieve with req.ParamsFromContext.
//
// A request whose body cannot be read is answered with the error through rp.
func InjectParams(rp ErrResponder, l logger.Logger, opts ...req.ParamsOptFn) Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := req.NewParams(r, l, opts...)
			if err != nil {
				rp.Err(w, r, err)
				return
			}

			h.ServeHTTP(w, r.Clone(req.NewParamsContext(r.Context(), p)))
		})
	}
}
