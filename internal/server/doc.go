// Package server provides HTTP routing, middleware, and the relay service's
// endpoint handlers.
//
// # Router Infrastructure
//
// The [BasicRouter] wraps [http.ServeMux] with method-qualified patterns and
// a middleware stack. [Middleware] wraps handlers in reverse order (last
// added executes first), following the standard Go pattern.
//
// # Endpoints
//
//	GET /login          → redirect to the provider's authorization page
//	GET /callback       → code exchange, session ingest, success page
//	GET /current-track  → guarded: track metadata + art reference
//	GET /art.bmp        → guarded: cached bitmap bytes
//	GET /health         → liveness probe
//
// # Middleware
//
// [RequestLogger] logs every request at debug level. [SessionGuard] is the
// credential guard: it validates the userId query parameter against the
// session store and answers 401 for unknown or expired sessions, so guarded
// handlers can assume a usable access token (modulo the documented race with
// background renewal, which only ever extends validity).
//
// # Handlers
//
// [AuthHandler] implements the [Handler] interface and owns the OAuth
// redirect dance. [TrackHandler] exposes plain HandlerFuncs so the caller
// can wire [SessionGuard] around exactly the routes that need it.
package server
