// package sessions holds the volatile per-user credential and cached art state.
//
// The store is deliberately in-memory only: a restart drops every session and
// users re-run the login flow. There is no eviction and no capacity bound.
package sessions

import (
	"time"

	"github.com/desertthunder/glance/internal/shared"
)

// Session is one user's credential pair plus the most recently transcoded
// album art. Records are replaced wholesale on every mutation; no caller
// updates a single field in place.
type Session struct {
	ID           string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Art          []byte
}

// Expired reports whether the access token must no longer be used at t.
func (s Session) Expired(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}

// Store defines access to session records.
//
// Get returns a copy of the record; callers mutate the copy and Put it back,
// which keeps each store operation atomic even though the surrounding
// read-modify-write spans upstream network calls.
type Store interface {
	Get(id string) (Session, bool)
	Put(sess Session)
	All() []Session
}

// Validate checks that a session exists and its access token is usable at now.
//
// Returns [shared.ErrSessionNotFound] for an unknown id and
// [shared.ErrTokenExpired] for a stale one.
func Validate(store Store, id string, now time.Time) error {
	sess, ok := store.Get(id)
	if !ok {
		return shared.ErrSessionNotFound
	}
	if sess.Expired(now) {
		return shared.ErrTokenExpired
	}
	return nil
}
