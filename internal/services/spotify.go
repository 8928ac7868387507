// Spotify API implementation of [Service]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/desertthunder/glance/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	currentlyPlayingEndpoint = "/me/player/currently-playing"
)

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
	URI    string         `json:"uri"`
}

// LargestImage returns the URL of the album image with the greatest pixel
// area, or "" when the album carries no images.
func (a SpotifyAlbum) LargestImage() string {
	best := ""
	bestArea := -1
	for _, img := range a.Images {
		area := img.Width * img.Height
		if area > bestArea {
			best = img.URL
			bestArea = area
		}
	}
	return best
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	URI        string          `json:"uri"`
}

// Playback represents the currently-playing response payload.
//
// Item is nil when Spotify reports playback of a non-track context
// (podcast episodes with the track scope) or an empty payload.
type Playback struct {
	IsPlaying  bool          `json:"is_playing"`
	ProgressMS int           `json:"progress_ms"`
	Item       *SpotifyTrack `json:"item"`
}

// SpotifyService implements the Service interface for Spotify API interactions.
// Uses [oauth2] for the token lifecycle and a shared [rate.Limiter] to keep a
// polling display client inside Spotify's request quota.
type SpotifyService struct {
	config     *oauth2.Config
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
//
// Recognized keys: client_id, client_secret, redirect_uri, plus optional
// auth_url, token_url, and api_url overrides for tests and proxies.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:3000/callback"
	}

	authURL := credentials["auth_url"]
	if authURL == "" {
		authURL = spotifyAuthURL
	}
	tokenURL := credentials["token_url"]
	if tokenURL == "" {
		tokenURL = spotifyTokenURL
	}
	baseURL := credentials["api_url"]
	if baseURL == "" {
		baseURL = spotifyBaseURL
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{"user-read-currently-playing"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
			// Spotify requires basic auth client credentials on the token endpoint
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	return &SpotifyService{
		config:     config,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
		baseURL:    baseURL,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// AuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state)
}

// oauthContext routes [oauth2] requests through the service's own HTTP
// client. Without it the token endpoint is hit with http.DefaultClient,
// which has no timeout.
func (s *SpotifyService) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

// Exchange trades an authorization code for a token pair.
func (s *SpotifyService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.config.Exchange(s.oauthContext(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	return token, nil
}

// Refresh performs a refresh_token grant against the token endpoint.
//
// The [oauth2] token source carries the old refresh token forward when
// Spotify's response omits one, which it usually does.
func (s *SpotifyService) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: empty refresh token", shared.ErrRefreshFailed)
	}

	src := s.config.TokenSource(s.oauthContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	return token, nil
}

// CurrentlyPlaying queries the user's active playback state.
func (s *SpotifyService) CurrentlyPlaying(ctx context.Context, accessToken string) (*Playback, error) {
	var playback Playback
	status, err := s.doRequest(ctx, http.MethodGet, currentlyPlayingEndpoint, accessToken, &playback)
	if err != nil {
		return nil, err
	}

	// Spotify answers 204 with an empty body when nothing is playing
	if status == http.StatusNoContent || playback.Item == nil {
		return nil, shared.ErrNoActiveTrack
	}

	return &playback, nil
}

// doRequest performs an authenticated HTTP request to the Spotify API and
// decodes the JSON response into result when the body is non-empty.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint, accessToken string, result interface{}) (int, error) {
	if accessToken == "" {
		return 0, fmt.Errorf("%w: no access token", shared.ErrAuthFailed)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("%w: spotify API status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		// an empty 200 body is left as the zero value, not treated as an error
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil && err != io.EOF {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}
