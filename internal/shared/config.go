package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Server      ServerConfig      `toml:"server"`
	Refresher   RefresherConfig   `toml:"refresher"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	// DefaultUserID is the session id assumed when a display client omits userId.
	DefaultUserID string `toml:"default_user_id"`
}

// RefresherConfig contains background token renewal settings.
type RefresherConfig struct {
	IntervalSeconds  int `toml:"interval_seconds"`
	LookAheadSeconds int `toml:"look_ahead_seconds"`
}

// envOverrides mirrors the environment variables the original deployment used;
// when set they take precedence over values from the config file.
type envOverrides struct {
	SpotifyClientID     string `env:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string `env:"SPOTIFY_CLIENT_SECRET"`
	SpotifyRedirectURI  string `env:"SPOTIFY_REDIRECT_URI"`
	Port                int    `env:"PORT"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overlays SPOTIFY_* and PORT environment variables onto the config.
func (c *Config) ApplyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if o.SpotifyClientID != "" {
		c.Credentials.Spotify.ClientID = o.SpotifyClientID
	}
	if o.SpotifyClientSecret != "" {
		c.Credentials.Spotify.ClientSecret = o.SpotifyClientSecret
	}
	if o.SpotifyRedirectURI != "" {
		c.Credentials.Spotify.RedirectURI = o.SpotifyRedirectURI
	}
	if o.Port != 0 {
		c.Server.Port = o.Port
	}

	return nil
}

// Addr returns the host:port pair the HTTP server should bind.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
