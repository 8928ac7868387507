package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication and session errors
	ErrAuthFailed      = fmt.Errorf("authentication failed")
	ErrSessionNotFound = fmt.Errorf("session not found")
	ErrTokenExpired    = fmt.Errorf("access token expired")
	ErrRefreshFailed   = fmt.Errorf("token refresh failed")

	// Upstream API errors
	ErrAPIRequest    = fmt.Errorf("API request failed")
	ErrNoActiveTrack = fmt.Errorf("no active track")
	ErrTrackQuery    = fmt.Errorf("track query failed")

	// Art pipeline errors
	ErrArtFetch    = fmt.Errorf("art fetch failed")
	ErrArtDecode   = fmt.Errorf("art decode failed")
	ErrArtEncode   = fmt.Errorf("art encode failed")
	ErrArtNotFound = fmt.Errorf("no cached art")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
