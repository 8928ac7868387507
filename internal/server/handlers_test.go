package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/glance/internal/services"
	"github.com/desertthunder/glance/internal/sessions"
	"github.com/desertthunder/glance/internal/shared"
	"github.com/desertthunder/glance/internal/tasks"
	tu "github.com/desertthunder/glance/internal/testing"
	"golang.org/x/oauth2"
)

// newTestRouter wires the full route table the way cmd/serve does.
func newTestRouter(store sessions.Store, spotify services.Service, transcoder tasks.Transcoder) *BasicRouter {
	logger := shared.NewLogger(nil)
	engine := tasks.NewTrackEngine(store, spotify, transcoder, logger)

	router := NewBasicRouter()
	router.Use(RequestLogger(logger))

	router.Handler(NewAuthHandler(spotify, engine, "vobot-user", logger))

	guard := SessionGuard(store)
	trackHandler := NewTrackHandler(engine, logger)
	router.Handle("GET /current-track", http.HandlerFunc(trackHandler.CurrentTrack), guard)
	router.Handle("GET /art.bmp", http.HandlerFunc(trackHandler.Art), guard)
	router.Handle("GET /health", http.HandlerFunc(Health))

	return router
}

func TestSessionGuard(t *testing.T) {
	store := sessions.NewMemoryStore()
	store.Put(sessions.Session{ID: "live", AccessToken: "at", ExpiresAt: time.Now().Add(time.Hour)})
	store.Put(sessions.Session{ID: "stale", AccessToken: "at", ExpiresAt: time.Now().Add(-time.Minute)})

	router := newTestRouter(store, &tu.MockService{}, &tu.MockTranscoder{Output: []byte{0x42, 0x4D}})

	t.Run("missing userId", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/current-track", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Unauthorized") {
			t.Errorf("expected Unauthorized body, got %q", rec.Body.String())
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/current-track?userId=ghost", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("expired session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/current-track?userId=stale", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Token expired") {
			t.Errorf("expected token expired body, got %q", rec.Body.String())
		}
	})

	t.Run("live session passes through", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/art.bmp?userId=live", nil))

		// guard passed; art just isn't cached yet
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404 from handler, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Art not found") {
			t.Errorf("expected art not found body, got %q", rec.Body.String())
		}
	})
}

func TestAuthHandler(t *testing.T) {
	t.Run("login redirects with userId as state", func(t *testing.T) {
		router := newTestRouter(sessions.NewMemoryStore(), &tu.MockService{}, &tu.MockTranscoder{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login?userId=u1", nil))

		if rec.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rec.Code)
		}
		if got := rec.Header().Get("Location"); !strings.Contains(got, "state=u1") {
			t.Errorf("expected state=u1 in redirect, got %q", got)
		}
	})

	t.Run("login falls back to the default user id", func(t *testing.T) {
		router := newTestRouter(sessions.NewMemoryStore(), &tu.MockService{}, &tu.MockTranscoder{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

		if got := rec.Header().Get("Location"); !strings.Contains(got, "state=vobot-user") {
			t.Errorf("expected default state in redirect, got %q", got)
		}
	})

	t.Run("callback ingests the session", func(t *testing.T) {
		store := sessions.NewMemoryStore()
		expiry := time.Now().Add(time.Hour)
		spotify := &tu.MockService{
			ExchangeFunc: func(ctx context.Context, code string) (*oauth2.Token, error) {
				if code != "auth_code_123" {
					t.Errorf("unexpected code %q", code)
				}
				return &oauth2.Token{AccessToken: "at_new", RefreshToken: "rt_new", Expiry: expiry}, nil
			},
		}
		router := newTestRouter(store, spotify, &tu.MockTranscoder{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=auth_code_123&state=u1", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Authentication Successful") {
			t.Errorf("expected success page, got %q", rec.Body.String())
		}

		sess, ok := store.Get("u1")
		if !ok {
			t.Fatal("expected session to be stored")
		}
		if sess.AccessToken != "at_new" || sess.RefreshToken != "rt_new" {
			t.Errorf("unexpected tokens: %q %q", sess.AccessToken, sess.RefreshToken)
		}
		if !sess.ExpiresAt.Equal(expiry) {
			t.Errorf("expected expiry %v, got %v", expiry, sess.ExpiresAt)
		}
	})

	t.Run("callback without code reports the provider error", func(t *testing.T) {
		router := newTestRouter(sessions.NewMemoryStore(), &tu.MockService{}, &tu.MockTranscoder{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?error=access_denied", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("callback exchange failure", func(t *testing.T) {
		spotify := &tu.MockService{
			ExchangeFunc: func(ctx context.Context, code string) (*oauth2.Token, error) {
				return nil, fmt.Errorf("%w: bad code", shared.ErrAuthFailed)
			},
		}
		router := newTestRouter(sessions.NewMemoryStore(), spotify, &tu.MockTranscoder{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=bad&state=u1", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})
}

func TestTrackHandler(t *testing.T) {
	liveStore := func() *sessions.MemoryStore {
		store := sessions.NewMemoryStore()
		store.Put(sessions.Session{ID: "u1", AccessToken: "at", ExpiresAt: time.Now().Add(time.Hour)})
		return store
	}

	playing := &tu.MockService{
		CurrentlyPlayingFunc: func(ctx context.Context, accessToken string) (*services.Playback, error) {
			return &services.Playback{Item: &services.SpotifyTrack{
				Name:    "Song A",
				Artists: []services.SpotifyArtist{{Name: "Artist B"}},
				Album:   services.SpotifyAlbum{Images: []services.SpotifyImage{{URL: "http://img/600", Width: 600, Height: 600}}},
			}}, nil
		},
	}

	t.Run("current-track returns metadata and an absolute art URL", func(t *testing.T) {
		bitmap := []byte{0x42, 0x4D, 7}
		router := newTestRouter(liveStore(), playing, &tu.MockTranscoder{Output: bitmap})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "http://display.local/current-track?userId=u1", nil)
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var result tasks.TrackResult
		if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if result.Track != "Song A" || result.Artist != "Artist B" {
			t.Errorf("unexpected metadata: %+v", result)
		}
		if result.ArtURL != "http://display.local/art.bmp?userId=u1" {
			t.Errorf("unexpected art URL %q", result.ArtURL)
		}
	})

	t.Run("art serves the cached bytes with the bmp content type", func(t *testing.T) {
		bitmap := []byte{0x42, 0x4D, 7}
		store := liveStore()
		router := newTestRouter(store, playing, &tu.MockTranscoder{Output: bitmap})

		// prime the cache through a query
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/current-track?userId=u1", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("priming query failed: %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/art.bmp?userId=u1", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got := rec.Header().Get("Content-Type"); got != "image/bmp" {
			t.Errorf("expected image/bmp content type, got %q", got)
		}
		if rec.Body.String() != string(bitmap) {
			t.Error("expected the exact cached bitmap bytes")
		}
	})

	t.Run("no active track", func(t *testing.T) {
		idle := &tu.MockService{
			CurrentlyPlayingFunc: func(ctx context.Context, accessToken string) (*services.Playback, error) {
				return nil, shared.ErrNoActiveTrack
			},
		}
		router := newTestRouter(liveStore(), idle, &tu.MockTranscoder{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/current-track?userId=u1", nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "No active track") {
			t.Errorf("expected no active track body, got %q", rec.Body.String())
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		broken := &tu.MockService{
			CurrentlyPlayingFunc: func(ctx context.Context, accessToken string) (*services.Playback, error) {
				return nil, fmt.Errorf("%w: status 500", shared.ErrAPIRequest)
			},
		}
		router := newTestRouter(liveStore(), broken, &tu.MockTranscoder{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/current-track?userId=u1", nil))

		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", rec.Code)
		}
	})
}

func TestHealth(t *testing.T) {
	router := newTestRouter(sessions.NewMemoryStore(), &tu.MockService{}, &tu.MockTranscoder{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("expected ok status, got %q", rec.Body.String())
	}
}
