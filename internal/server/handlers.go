package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/glance/internal/services"
	"github.com/desertthunder/glance/internal/sessions"
	"github.com/desertthunder/glance/internal/shared"
	"github.com/desertthunder/glance/internal/tasks"
)

// AuthHandler handles the OAuth2 authorization-code flow: the redirect to the
// provider and the callback that ingests the resulting session.
type AuthHandler struct {
	spotify       services.Service
	engine        *tasks.TrackEngine
	defaultUserID string
	logger        *log.Logger
}

// NewAuthHandler creates an AuthHandler. defaultUserID is assumed when a
// login request omits the userId parameter.
func NewAuthHandler(spotify services.Service, engine *tasks.TrackEngine, defaultUserID string, logger *log.Logger) *AuthHandler {
	return &AuthHandler{
		spotify:       spotify,
		engine:        engine,
		defaultUserID: defaultUserID,
		logger:        logger,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *AuthHandler) Routes() []string {
	return []string{"GET /login", "GET /callback"}
}

// ServeHTTP dispatches to the login redirect or the callback exchange.
func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/login":
		h.login(w, r)
	case "/callback":
		h.callback(w, r)
	default:
		http.NotFound(w, r)
	}
}

// login redirects the browser to the provider's authorization page. The
// session id rides along as the OAuth state parameter.
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get(userIDParam)
	if state == "" {
		state = h.defaultUserID
	}
	if state == "" {
		state = shared.GenerateID()
	}

	http.Redirect(w, r, h.spotify.AuthURL(state), http.StatusFound)
}

// callback exchanges the authorization code and ingests the new session under
// the id carried in the state parameter.
func (h *AuthHandler) callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	code := query.Get("code")
	if code == "" {
		errParam := query.Get("error")
		errDesc := query.Get("error_description")
		h.logger.Error("authorization failed", "error", errParam, "description", errDesc)
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	state := query.Get("state")
	if state == "" {
		state = h.defaultUserID
	}

	token, err := h.spotify.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("token exchange failed", "err", err)
		http.Error(w, "Authentication failed", http.StatusInternalServerError)
		return
	}

	h.engine.Ingest(sessions.Session{
		ID:           state,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head>
    <title>Authentication Successful</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>&#10003; Authentication Successful</h1>
        <p>Your display is connected. You can close this window.</p>
    </div>
</body>
</html>
`)
}

// TrackHandler serves the guarded display endpoints: track metadata and the
// cached bitmap. Register its methods behind [SessionGuard].
type TrackHandler struct {
	engine *tasks.TrackEngine
	logger *log.Logger
}

// NewTrackHandler creates a TrackHandler around the engine.
func NewTrackHandler(engine *tasks.TrackEngine, logger *log.Logger) *TrackHandler {
	return &TrackHandler{engine: engine, logger: logger}
}

// CurrentTrack returns the active track's metadata and an art reference,
// caching freshly transcoded art as a side effect.
func (h *TrackHandler) CurrentTrack(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get(userIDParam)

	result, err := h.engine.CurrentTrack(r.Context(), userID)
	switch {
	case err == nil:
	case errors.Is(err, shared.ErrNoActiveTrack):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "No active track"})
		return
	default:
		h.logger.Error("track query failed", "session", userID, "err", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "Failed to fetch track"})
		return
	}

	// the art reference is relative; make it absolute for the display client
	result.ArtURL = "http://" + r.Host + result.ArtURL
	writeJSON(w, http.StatusOK, result)
}

// Art serves the most recently cached bitmap for the session.
func (h *TrackHandler) Art(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get(userIDParam)

	bitmap, err := h.engine.CachedArt(userID)
	if err != nil {
		http.Error(w, "Art not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/bmp")
	w.Write(bitmap)
}

// Health reports service liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
