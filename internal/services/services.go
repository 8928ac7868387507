// package services defines interface Service for interacting with the upstream music provider
package services

import (
	"context"

	"golang.org/x/oauth2"
)

// Service defines the operations the session and track layers need from a
// music streaming provider: the OAuth2 token lifecycle and the currently
// playing query.
type Service interface {
	// AuthURL returns the authorization URL a user visits to grant access.
	// The state value round-trips through the provider and identifies the session.
	AuthURL(state string) string

	// Exchange trades an authorization code for an access/refresh token pair.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// Refresh mints a new access token from a stored refresh token.
	// The returned token keeps the old refresh token when the provider omits one.
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)

	// CurrentlyPlaying queries the provider for the user's active playback.
	// Returns [shared.ErrNoActiveTrack] when nothing is playing.
	CurrentlyPlaying(ctx context.Context, accessToken string) (*Playback, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}
