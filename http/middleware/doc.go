/*
The middleware package defines what a middleware is in campus and a set of basic middlewares.

The available middlewares are:
  - CORS
  - ForceHTTPS
  - InjectIPAddress
  - InjectParams
  - InjectSession
  - LogRequest
  - MethodOverride
  - RateLimit
  - ReportPanic
  - RequestID

The app package assembles the default chain; to assemble one by hand, in order:

	vs := middleware.NewVisitors()
	adpts := []middleware.Adapter{
		middleware.RateLimit(vs, responder),
		middleware.ForceHTTPS(env),
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.LogRequest(httpLogger),
		middleware.ReportPanic(env, responder),
		middleware.CORS(origin),
		middleware.MethodOverride(),
		middleware.InjectSession(sessionStore, log),
		middleware.InjectParams(responder, log),
	}
*/
package middleware
