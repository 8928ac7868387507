package tasks

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/glance/internal/services"
	"github.com/desertthunder/glance/internal/sessions"
	"github.com/desertthunder/glance/internal/shared"
)

// artPath is the route the display client fetches cached art from.
const artPath = "/art.bmp"

// TrackResult is what the display client receives for a current-track query.
// ArtURL is a reference to the cached bitmap, not the bytes themselves.
type TrackResult struct {
	Track  string `json:"track"`
	Artist string `json:"artist"`
	ArtURL string `json:"art_url"`
}

// Transcoder turns a remote image URL into display-ready bitmap bytes.
type Transcoder interface {
	Transcode(ctx context.Context, imageURL string) ([]byte, error)
}

// TrackEngine orchestrates current-track queries against the session store,
// the upstream service, and the art pipeline.
type TrackEngine struct {
	store      sessions.Store
	spotify    services.Service
	transcoder Transcoder
	logger     *log.Logger
}

// NewTrackEngine creates a TrackEngine with the provided collaborators.
func NewTrackEngine(store sessions.Store, spotify services.Service, transcoder Transcoder, logger *log.Logger) *TrackEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &TrackEngine{
		store:      store,
		spotify:    spotify,
		transcoder: transcoder,
		logger:     logger,
	}
}

// CurrentTrack queries the upstream for the session's active playback,
// transcodes the album art, and caches the bitmap on the session record.
//
// Returns [shared.ErrSessionNotFound] for an unknown session,
// [shared.ErrNoActiveTrack] when nothing is playing, and wraps every other
// upstream or pipeline failure in [shared.ErrTrackQuery]. The session record
// is left unmodified on any failure.
func (e *TrackEngine) CurrentTrack(ctx context.Context, sessionID string) (*TrackResult, error) {
	sess, ok := e.store.Get(sessionID)
	if !ok {
		return nil, shared.ErrSessionNotFound
	}

	playback, err := e.spotify.CurrentlyPlaying(ctx, sess.AccessToken)
	if err != nil {
		if errors.Is(err, shared.ErrNoActiveTrack) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrTrackQuery, err)
	}

	item := playback.Item
	if item == nil {
		return nil, shared.ErrNoActiveTrack
	}
	if len(item.Artists) == 0 {
		return nil, fmt.Errorf("%w: track %q has no artists", shared.ErrTrackQuery, item.Name)
	}

	artURL := item.Album.LargestImage()
	if artURL == "" {
		return nil, fmt.Errorf("%w: track %q has no album art", shared.ErrTrackQuery, item.Name)
	}

	bitmap, err := e.transcoder.Transcode(ctx, artURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTrackQuery, err)
	}

	// Re-read before the write so a renewal that landed during the
	// query keeps its fresh credentials.
	if current, ok := e.store.Get(sessionID); ok {
		sess = current
	}
	sess.Art = bitmap
	e.store.Put(sess)

	e.logger.Debug("cached new art", "session", sessionID, "track", item.Name, "bytes", len(bitmap))

	return &TrackResult{
		Track:  item.Name,
		Artist: item.Artists[0].Name,
		ArtURL: artPath + "?userId=" + url.QueryEscape(sessionID),
	}, nil
}

// CachedArt returns the most recently transcoded bitmap for the session.
//
// Returns [shared.ErrArtNotFound] before the first successful query.
func (e *TrackEngine) CachedArt(sessionID string) ([]byte, error) {
	sess, ok := e.store.Get(sessionID)
	if !ok {
		return nil, shared.ErrSessionNotFound
	}
	if len(sess.Art) == 0 {
		return nil, shared.ErrArtNotFound
	}
	return sess.Art, nil
}

// Ingest records a freshly authenticated session, replacing any prior record
// for the same id.
func (e *TrackEngine) Ingest(sess sessions.Session) {
	e.store.Put(sess)
	e.logger.Info("session ingested", "session", sess.ID, "expires_at", sess.ExpiresAt)
}
