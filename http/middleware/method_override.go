package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
)

const overrideHeader = "X-HTTP-Method-Override"

// altOverrideHeaders are vendor variations of X-HTTP-Method-Override.
var altOverrideHeaders = []string{"X-HTTP-Method", "X-Method-Override"}

// MethodOverride lets a POST stand in for a PUT, PATCH or DELETE,
// so clients limited to GET and POST, such as HTML forms, reach those routes.
//
// The method is read from the "_method" query or form value,
// or one of the X-HTTP-Method-Override, X-HTTP-Method and X-Method-Override headers.
func MethodOverride() Adapter {
	return func(h http.Handler) http.Handler {
		overridden := handlers.HTTPMethodOverrideHandler(h)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && r.Header.Get(overrideHeader) == "" {
				for _, alt := range altOverrideHeaders {
					if m := r.Header.Get(alt); m != "" {
						r.Header.Set(overrideHeader, strings.ToUpper(m))
						break
					}
				}
			}

			overridden.ServeHTTP(w, r)
		})
	}
}
