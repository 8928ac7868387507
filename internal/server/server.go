// package server contains middleware & handlers for the now-playing relay service
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// The service uses it for request logging and the session credential guard.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the relay service.
// Implementations handle related endpoint groups (auth flow, track queries).
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the method-qualified patterns this handler serves, e.g. "GET /login"
}

// Server owns the HTTP listener lifecycle around a router.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

// NewServer creates a Server bound to addr serving router.
func NewServer(addr string, router http.Handler, logger *log.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// ListenAndServe blocks serving requests until Shutdown or a listener error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("server listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and closes the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.httpServer.Shutdown(ctx)
}
