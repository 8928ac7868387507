package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/glance/internal/services"
	"github.com/desertthunder/glance/internal/sessions"
	"github.com/desertthunder/glance/internal/shared"
)

const (
	// DefaultRefreshInterval is how often the sweep runs.
	DefaultRefreshInterval = 60 * time.Second
	// DefaultLookAhead is how close to expiry a token must be before the
	// sweep renews it.
	DefaultLookAhead = 5 * time.Minute
)

// Refresher keeps stored access tokens usable without user interaction by
// renewing any token whose expiry falls inside the look-ahead window.
type Refresher struct {
	store     sessions.Store
	spotify   services.Service
	logger    *log.Logger
	interval  time.Duration
	lookAhead time.Duration
}

// NewRefresher creates a Refresher. Non-positive interval or lookAhead values
// fall back to the defaults.
func NewRefresher(store sessions.Store, spotify services.Service, logger *log.Logger, interval, lookAhead time.Duration) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	if lookAhead <= 0 {
		lookAhead = DefaultLookAhead
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Refresher{
		store:     store,
		spotify:   spotify,
		logger:    logger,
		interval:  interval,
		lookAhead: lookAhead,
	}
}

// Start runs the sweep loop until ctx is canceled. Intended to run on its own
// goroutine for the life of the process.
func (r *Refresher) Start(ctx context.Context) {
	r.logger.Info("token refresher started", "interval", r.interval, "look_ahead", r.lookAhead)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("token refresher stopped")
			return
		case <-ticker.C:
			r.Sweep(ctx, time.Now())
		}
	}
}

// Sweep renews every session whose token expires within the look-ahead
// window of now. Each session's renewal is independent: a failure is logged
// and the scan moves on, leaving that record untouched.
func (r *Refresher) Sweep(ctx context.Context, now time.Time) {
	for _, sess := range r.store.All() {
		if sess.ExpiresAt.Sub(now) > r.lookAhead {
			continue
		}
		if err := r.renew(ctx, sess); err != nil {
			r.logger.Error("token renewal failed", "session", sess.ID, "err", err)
		}
	}
}

// renew exchanges the session's refresh token for a new access token and
// writes the updated record back, preserving the refresh token and cached art.
func (r *Refresher) renew(ctx context.Context, sess sessions.Session) error {
	token, err := r.spotify.Refresh(ctx, sess.RefreshToken)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	// Re-read in case art was cached while the exchange was in flight.
	if current, ok := r.store.Get(sess.ID); ok {
		sess = current
	}
	sess.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		sess.RefreshToken = token.RefreshToken
	}
	sess.ExpiresAt = token.Expiry
	r.store.Put(sess)

	r.logger.Debug("token renewed", "session", sess.ID, "expires_at", sess.ExpiresAt)
	return nil
}
