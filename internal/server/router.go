package server

import "net/http"

// BasicRouter is a small HTTP router built on [http.ServeMux], using
// method-qualified patterns ("GET /login") for routing.
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{
		mux:         http.NewServeMux(),
		middlewares: []Middleware{},
	}
}

// Use adds [Middleware] applied to every subsequently registered handler,
// in the order it's added.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers a handler for the given method-qualified pattern,
// wrapped with the router's middleware plus any extra middleware given here
// (extra middleware runs innermost).
func (r *BasicRouter) Handle(pattern string, handler http.Handler, extra ...Middleware) {
	for i := len(extra) - 1; i >= 0; i-- {
		handler = extra[i](handler)
	}
	r.mux.Handle(pattern, r.Apply(handler))
}

// Handler registers a custom [Handler] implementation under every pattern it
// returns from Routes.
func (r *BasicRouter) Handler(handler Handler, extra ...Middleware) {
	for _, route := range handler.Routes() {
		r.Handle(route, handler, extra...)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps a handler with all registered middleware.
//
// Middleware is applied in reverse order (last added wraps first).
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}

	return wrapped
}
