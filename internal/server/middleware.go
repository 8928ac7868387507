package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/glance/internal/sessions"
	"github.com/desertthunder/glance/internal/shared"
)

// userIDParam is the query parameter display clients identify themselves with.
const userIDParam = "userId"

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs method, path, status, and duration for every request.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(rec, r)

			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}

// SessionGuard rejects requests whose userId query parameter does not map to
// a live, unexpired session. The guard only reads the store; renewal happens
// in the background sweep.
func SessionGuard(store sessions.Store) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.URL.Query().Get(userIDParam)

			switch err := sessions.Validate(store, userID, time.Now()); {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, shared.ErrTokenExpired):
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Token expired"})
			default:
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			}
		})
	}
}

// writeJSON marshals v to the response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
