// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"

	"github.com/desertthunder/glance/internal/services"
	"golang.org/x/oauth2"
)

// MockService is a test double for [services.Service]. Unset funcs yield
// zero-value successes.
type MockService struct {
	AuthURLFunc          func(state string) string
	ExchangeFunc         func(ctx context.Context, code string) (*oauth2.Token, error)
	RefreshFunc          func(ctx context.Context, refreshToken string) (*oauth2.Token, error)
	CurrentlyPlayingFunc func(ctx context.Context, accessToken string) (*services.Playback, error)
}

func (m *MockService) AuthURL(state string) string {
	if m.AuthURLFunc != nil {
		return m.AuthURLFunc(state)
	}
	return "https://accounts.example.com/authorize?state=" + state
}

func (m *MockService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, code)
	}
	return &oauth2.Token{AccessToken: "mock_access"}, nil
}

func (m *MockService) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return &oauth2.Token{AccessToken: "mock_access", RefreshToken: refreshToken}, nil
}

func (m *MockService) CurrentlyPlaying(ctx context.Context, accessToken string) (*services.Playback, error) {
	if m.CurrentlyPlayingFunc != nil {
		return m.CurrentlyPlayingFunc(ctx, accessToken)
	}
	return &services.Playback{}, nil
}

func (m *MockService) Name() string { return "mock" }

// MockTranscoder is a test double for the art pipeline.
type MockTranscoder struct {
	Output []byte
	Err    error
	Calls  []string
}

func (m *MockTranscoder) Transcode(ctx context.Context, imageURL string) ([]byte, error) {
	m.Calls = append(m.Calls, imageURL)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Output, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}
