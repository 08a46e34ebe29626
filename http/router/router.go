package router

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/myschool/campus"
	"github.com/myschool/campus/http/middleware"
)

const staticMaxAge = "max-age=2592000" // 30 days

// A Route maps a path and HTTP method to an [http.HandlerFunc].
// Additional [middleware.Adapter] can be called when a server handles
// a request matching the Route.
type Route struct {
	Path        string
	Method      string
	Handler     http.HandlerFunc
	Middlewares []middleware.Adapter
}

// A Responder renders errors, including requests no Route matches.
type Responder interface {
	middleware.ErrResponder
	NotFound(w http.ResponseWriter, r *http.Request)
}

// Router routes requests for resources to their handlers and static files.
type Router struct {
	Env           campus.Environment
	everyReqStack []middleware.Adapter
	logReq        middleware.Adapter
	rp            Responder
	r             *mux.Router
}

// New constructs a [*Router] for the given environment.
//
// logReq logs requests for static files, which skip the stack set by OnEveryRequest.
// Requests matching no Route, or a Route but not its method,
// are answered by rp.NotFound.
func New(env campus.Environment, rp Responder, logReq middleware.Adapter) *Router {
	if logReq == nil {
		logReq = middleware.NoopAdapter
	}

	r := &Router{Env: env, logReq: logReq, rp: rp, r: mux.NewRouter()}
	r.HandleNotFound(rp.NotFound)
	return r
}

// CatchAll sets up a handler for all routes to funnel to for e.g. maintenance mode.
func (r *Router) CatchAll(handler http.HandlerFunc) {
	r.r.PathPrefix("/").Handler(
		middleware.Chain(
			middleware.ReportPanic(r.Env, r.rp)(handler),
			r.everyReqStack...,
		),
	)
}

// Favicon serves the file at file for /favicon.ico.
// Nothing is registered if file does not exist.
func (r *Router) Favicon(file string) {
	if fi, err := os.Stat(file); err != nil || fi.IsDir() {
		return
	}

	r.r.Path("/favicon.ico").Methods(http.MethodGet, http.MethodHead).Handler(middleware.Chain(
		http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			http.ServeFile(w, req, file)
		}),
		cacheControlMiddleware(),
		r.logReq,
	))
}

// Handle applies the [Route] to the [*Router].
func (r *Router) Handle(route Route) {
	r.HandleRoutes([]Route{route})
}

// HandleNotFound sets the provided [http.HandlerFunc] as the default function
// for when no other registered Route is matched.
// It also answers requests matching a Route's path but not its method.
//
// The handler runs behind the stack set by OnEveryRequest.
func (r *Router) HandleNotFound(handler http.HandlerFunc) {
	h := middleware.Chain(middleware.ReportPanic(r.Env, r.rp)(handler), r.everyReqStack...)

	r.r.NotFoundHandler = h
	r.r.MethodNotAllowedHandler = h
}

// HandleRoutes registers the set of Routes on the Router
// and includes all the [middleware.Adapter] on each Route.
// Any [middleware.Adapter] already assigned to a Route is appended to middlewares,
// so are called after the default set.
func (r *Router) HandleRoutes(routes []Route, middlewares ...middleware.Adapter) {
	for _, route := range routes {
		mws := append([]middleware.Adapter{}, r.everyReqStack...)
		mws = append(mws, middlewares...)
		mws = append(mws, route.Middlewares...)
		handler := middleware.Chain(middleware.ReportPanic(r.Env, r.rp)(route.Handler), mws...)
		r.r.Handle(route.Path, handler).Methods(route.Method)
	}
}

// OnEveryRequest appends the middlewares to the existing stack
// that the [*Router] will apply to every request.
//
// Call OnEveryRequest before registering Routes; Routes keep the stack they were registered with.
func (r *Router) OnEveryRequest(middlewares ...middleware.Adapter) {
	r.everyReqStack = append(r.everyReqStack, middlewares...)
	r.HandleNotFound(r.rp.NotFound)
}

// ServeHTTP responds to an HTTP request.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.r.ServeHTTP(w, req)
}

// Static serves the files under dir at prefix.
//
// Only requests naming an existing file match,
// so Routes sharing prefix, such as "/", still reach their handlers.
func (r *Router) Static(prefix, dir string) {
	prefix = "/" + strings.Trim(prefix, "/")
	strip := strings.TrimSuffix(prefix, "/")

	r.r.PathPrefix(prefix).
		Methods(http.MethodGet, http.MethodHead).
		MatcherFunc(fileExists(dir, strip)).
		Handler(middleware.Chain(
			http.StripPrefix(strip, http.FileServer(http.Dir(dir))),
			cacheControlMiddleware(),
			r.logReq,
		))
}

// Subrouter constructs a [Router] that handles requests to endpoints matching the prefix.
//
// e.g., r.Subrouter("/api/v1") handles requests to endpoints like /api/v1/professor
func (r *Router) Subrouter(prefix string) *Router {
	return &Router{
		Env:           r.Env,
		r:             r.r.PathPrefix(prefix).Subrouter(),
		logReq:        r.logReq,
		rp:            r.rp,
		everyReqStack: r.everyReqStack,
	}
}

// cacheControlMiddleware helps by adding a "Cache-Control" header to the response.
func cacheControlMiddleware() middleware.Adapter {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", staticMaxAge)
			handler.ServeHTTP(w, r)
		})
	}
}

// fileExists matches requests whose path, less prefix, names a regular file under dir.
func fileExists(dir, prefix string) mux.MatcherFunc {
	return func(req *http.Request, _ *mux.RouteMatch) bool {
		name := strings.TrimPrefix(req.URL.Path, prefix)
		if name == "" || strings.HasSuffix(name, "/") {
			return false
		}

		fi, err := os.Stat(filepath.Join(dir, filepath.FromSlash(path.Clean("/"+name))))
		return err == nil && fi.Mode().IsRegular()
	}
}
