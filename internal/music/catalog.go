// Package music reads the public music catalog: the current top tracks and
// the latest album releases.
//
// Two Catalog implementations exist. ProxyClient talks to the small HTTP
// proxy the mobile app has always used (GET /tracks/top, GET
// /browse/new-releases). SpotifyClient goes straight to the Spotify Web API
// with an app-level client-credentials token. Both send their requests
// through the same guarded transport (rate limit + circuit breaker).
package music

import (
	"context"
	"errors"
	"fmt"
)

// Track is one entry of the top-tracks chart. Field names on the wire match
// what the proxy has always returned.
type Track struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	Image       string `json:"image,omitempty"`
	PreviewURL  string `json:"preview_url,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
}

// Release is one newly released album or single.
type Release struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	Image       string `json:"image,omitempty"`
	ReleaseDate string `json:"release_date"`
	ExternalURL string `json:"external_url"`
	TotalTracks int    `json:"total_tracks,omitempty"`
}

// Catalog is the read-only view of the music API the service layer needs.
type Catalog interface {
	TopTracks(ctx context.Context) ([]Track, error)
	NewReleases(ctx context.Context) ([]Release, error)
}

var (
	// ErrUpstream means the catalog answered with a non-2xx status or a body
	// that could not be decoded.
	ErrUpstream = errors.New("music: upstream error")

	// ErrUnavailable means the circuit breaker is open and no request was sent.
	ErrUnavailable = errors.New("music: catalog temporarily unavailable")
)

// UpstreamError carries the status code of a failed catalog call.
type UpstreamError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("music: %s returned status %d: %s", e.Endpoint, e.Status, e.Body)
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
