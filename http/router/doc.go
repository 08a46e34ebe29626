/*
Package router routes requests for a campus app to handlers and static files.

[*Router] is a thin wrapper around [mux.Router].
A [Route] pairs a path and an HTTP method with an [http.HandlerFunc].
Before a request gets to a handler, any middlewares added to the Route are called in the order they appear,
after those the Router applies on every request.

Files under a public directory are served with [*Router.Static] ahead of any Route,
but only when the requested file exists.
Everything else unmatched renders the not found envelope through the Router's Responder.
*/
package router
