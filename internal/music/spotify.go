package music

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// Spotify's public "Top 50 - Global" chart.
	DefaultTopPlaylistID = "37i9dQZEVXbMDoHDwVN2tF"

	spotifyPageLimit = 50
)

// SpotifyConfig configures SpotifyClient. BaseURL and TokenURL default to
// Spotify's production endpoints.
type SpotifyConfig struct {
	ClientID      string
	ClientSecret  string
	TopPlaylistID string
	Market        string
	BaseURL       string
	TokenURL      string
	Timeout       time.Duration
	Transport     TransportConfig
}

// SpotifyClient reads the catalog directly from the Spotify Web API using an
// app token obtained with the client-credentials grant. No user is involved.
type SpotifyClient struct {
	httpClient    *http.Client
	baseURL       string
	topPlaylistID string
	market        string
	logger        *slog.Logger
}

var _ Catalog = (*SpotifyClient)(nil)

// NewSpotifyClient builds a client. The returned client refreshes its token
// on its own; ctx only bounds token fetches made through it.
func NewSpotifyClient(ctx context.Context, cfg SpotifyConfig, logger *slog.Logger) (*SpotifyClient, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("music: missing Spotify client ID")
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("music: missing Spotify client secret")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = spotifyBaseURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = spotifyTokenURL
	}
	if cfg.TopPlaylistID == "" {
		cfg.TopPlaylistID = DefaultTopPlaylistID
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Transport.Name == "" {
		cfg.Transport = DefaultTransportConfig("spotify")
	}

	guarded := NewTransport(nil, cfg.Transport, logger)

	// Token requests go through the same guarded transport as API calls.
	tokenCtx := context.WithValue(ctx, oauth2.HTTPClient, &http.Client{
		Timeout:   cfg.Timeout,
		Transport: guarded,
	})

	creds := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	return &SpotifyClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &oauth2.Transport{
				Source: creds.TokenSource(tokenCtx),
				Base:   guarded,
			},
		},
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		topPlaylistID: cfg.TopPlaylistID,
		market:        cfg.Market,
		logger:        logger,
	}, nil
}

// Spotify wire types, trimmed to the fields the catalog maps.

type spotifyImage struct {
	URL string `json:"url"`
}

type spotifyArtist struct {
	Name string `json:"name"`
}

type spotifyAlbum struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Artists      []spotifyArtist   `json:"artists"`
	Images       []spotifyImage    `json:"images"`
	ReleaseDate  string            `json:"release_date"`
	TotalTracks  int               `json:"total_tracks"`
	ExternalURLs map[string]string `json:"external_urls"`
}

type spotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []spotifyArtist `json:"artists"`
	Album      spotifyAlbum    `json:"album"`
	PreviewURL string          `json:"preview_url"`
}

type spotifyPlaylistTracks struct {
	Items []struct {
		Track *spotifyTrack `json:"track"`
	} `json:"items"`
}

type spotifyNewReleases struct {
	Albums struct {
		Items []spotifyAlbum `json:"items"`
	} `json:"albums"`
}

// TopTracks returns the tracks of the configured chart playlist.
func (c *SpotifyClient) TopTracks(ctx context.Context) ([]Track, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(spotifyPageLimit))
	if c.market != "" {
		q.Set("market", c.market)
	}
	endpoint := "/playlists/" + url.PathEscape(c.topPlaylistID) + "/tracks"

	var page spotifyPlaylistTracks
	if err := getJSON(ctx, c.httpClient, c.logger, c.baseURL+endpoint+"?"+q.Encode(), "spotify"+endpoint, &page); err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(page.Items))
	for _, item := range page.Items {
		// Local files and removed tracks come back as null.
		if item.Track == nil || item.Track.ID == "" {
			continue
		}
		tracks = append(tracks, trackFromSpotify(item.Track))
	}
	return tracks, nil
}

// NewReleases returns Spotify's featured new album releases.
func (c *SpotifyClient) NewReleases(ctx context.Context) ([]Release, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(spotifyPageLimit))
	if c.market != "" {
		q.Set("country", c.market)
	}

	var body spotifyNewReleases
	if err := getJSON(ctx, c.httpClient, c.logger, c.baseURL+"/browse/new-releases?"+q.Encode(), "spotify/browse/new-releases", &body); err != nil {
		return nil, err
	}

	releases := make([]Release, 0, len(body.Albums.Items))
	for i := range body.Albums.Items {
		releases = append(releases, releaseFromSpotify(&body.Albums.Items[i]))
	}
	return releases, nil
}

func trackFromSpotify(t *spotifyTrack) Track {
	return Track{
		ID:          t.ID,
		Name:        t.Name,
		Artist:      joinArtists(t.Artists),
		Album:       t.Album.Name,
		Image:       firstImage(t.Album.Images),
		PreviewURL:  t.PreviewURL,
		ReleaseDate: t.Album.ReleaseDate,
	}
}

func releaseFromSpotify(a *spotifyAlbum) Release {
	return Release{
		ID:          a.ID,
		Name:        a.Name,
		Artist:      joinArtists(a.Artists),
		Album:       a.Name,
		Image:       firstImage(a.Images),
		ReleaseDate: a.ReleaseDate,
		ExternalURL: a.ExternalURLs["spotify"],
		TotalTracks: a.TotalTracks,
	}
}

func joinArtists(artists []spotifyArtist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return strings.Join(names, ", ")
}

// firstImage picks the largest image; Spotify lists them widest first.
func firstImage(images []spotifyImage) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}
