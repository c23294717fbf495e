// Package config loads the server configuration from environment variables
// and an optional config file, through viper.
//
// Every key can be set as an environment variable of the same name
// (PORT, DB_PATH, JWT_SECRET, ...). A config file, when given, uses the
// lower-case names:
//
//	port: 8080
//	db_path: data/songbook.db
//	music_provider: spotify
//
// Environment variables win over the file; the file wins over defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderProxy   = "proxy"
	ProviderSpotify = "spotify"

	// MinJWTSecretLength matches auth.NewTokenService.
	MinJWTSecretLength = 16

	DefaultDBPath = "data/songbook.db"
)

type (
	Config struct {
		HTTP
		Database
		Auth
		Music
	}

	HTTP struct {
		Port               int
		CORSAllowedOrigins []string
		ShutdownTimeout    time.Duration
		SecureCookies      bool
	}

	Database struct {
		Path string
	}

	Auth struct {
		JWTSecret  string
		TokenTTL   time.Duration
		BcryptCost int
	}

	Music struct {
		Provider      string // ProviderProxy or ProviderSpotify
		ProxyURL      string
		RatePerSecond float64
		Timeout       time.Duration
		Spotify       Spotify
	}

	Spotify struct {
		ClientID      string
		ClientSecret  string
		TopPlaylistID string
		Market        string
	}
)

// NewViper returns a viper instance with every default set and environment
// lookup enabled. cmd binds its flags into the same instance.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", 8080)
	v.SetDefault("db_path", DefaultDBPath)
	v.SetDefault("cors_allowed_origins", []string{"*"})
	v.SetDefault("shutdown_timeout", "30s")
	v.SetDefault("secure_cookies", false)

	v.SetDefault("jwt_secret", "")
	v.SetDefault("token_ttl", "24h")
	v.SetDefault("bcrypt_cost", 12)

	v.SetDefault("music_provider", ProviderProxy)
	v.SetDefault("music_proxy_url", "")
	v.SetDefault("music_rate_per_second", 5.0)
	v.SetDefault("music_timeout", "10s")
	v.SetDefault("spotify_client_id", "")
	v.SetDefault("spotify_client_secret", "")
	v.SetDefault("spotify_top_playlist_id", "")
	v.SetDefault("spotify_market", "US")

	return v
}

// Load reads the optional config file into v and builds the Config.
// It does not validate; call Validate before serving.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", file, err)
		}
	}

	return &Config{
		HTTP: HTTP{
			Port:               v.GetInt("port"),
			CORSAllowedOrigins: splitList(v.GetStringSlice("cors_allowed_origins")),
			ShutdownTimeout:    v.GetDuration("shutdown_timeout"),
			SecureCookies:      v.GetBool("secure_cookies"),
		},
		Database: Database{
			Path: v.GetString("db_path"),
		},
		Auth: Auth{
			JWTSecret:  v.GetString("jwt_secret"),
			TokenTTL:   v.GetDuration("token_ttl"),
			BcryptCost: v.GetInt("bcrypt_cost"),
		},
		Music: Music{
			Provider:      strings.ToLower(strings.TrimSpace(v.GetString("music_provider"))),
			ProxyURL:      v.GetString("music_proxy_url"),
			RatePerSecond: v.GetFloat64("music_rate_per_second"),
			Timeout:       v.GetDuration("music_timeout"),
			Spotify: Spotify{
				ClientID:      v.GetString("spotify_client_id"),
				ClientSecret:  v.GetString("spotify_client_secret"),
				TopPlaylistID: v.GetString("spotify_top_playlist_id"),
				Market:        v.GetString("spotify_market"),
			},
		},
	}, nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("DB_PATH is required"))
	}
	if len(c.JWTSecret) < MinJWTSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d characters", MinJWTSecretLength))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}

	switch c.Music.Provider {
	case ProviderProxy:
		if c.Music.ProxyURL == "" {
			errs = append(errs, errors.New("MUSIC_PROXY_URL is required when MUSIC_PROVIDER=proxy"))
		}
	case ProviderSpotify:
		if c.Music.Spotify.ClientID == "" || c.Music.Spotify.ClientSecret == "" {
			errs = append(errs, errors.New("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET are required when MUSIC_PROVIDER=spotify"))
		}
	default:
		errs = append(errs, fmt.Errorf("MUSIC_PROVIDER must be %q or %q, got %q", ProviderProxy, ProviderSpotify, c.Music.Provider))
	}
	if c.Music.RatePerSecond <= 0 {
		errs = append(errs, errors.New("MUSIC_RATE_PER_SECOND must be positive"))
	}

	return errors.Join(errs...)
}

// splitList accepts both a real list and a single comma-separated string,
// which is what an environment variable gives.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
