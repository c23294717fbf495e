package music

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// maxErrorBody bounds how much of a failed response is kept for the error.
const maxErrorBody = 512

// ProxyClient reads the catalog from the music proxy service.
type ProxyClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewProxyClient returns a client for the proxy at baseURL. A nil
// httpClient gets a default one with the guarded transport and timeout.
func NewProxyClient(baseURL string, httpClient *http.Client, logger *slog.Logger) (*ProxyClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("music: proxy base URL is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   10 * time.Second,
			Transport: NewTransport(nil, DefaultTransportConfig("music-proxy"), logger),
		}
	}
	return &ProxyClient{baseURL: baseURL, httpClient: httpClient, logger: logger}, nil
}

var _ Catalog = (*ProxyClient)(nil)

// TopTracks calls GET {base}/tracks/top.
func (c *ProxyClient) TopTracks(ctx context.Context) ([]Track, error) {
	var tracks []Track
	if err := getJSON(ctx, c.httpClient, c.logger, c.baseURL+"/tracks/top", "tracks/top", &tracks); err != nil {
		return nil, err
	}
	if tracks == nil {
		tracks = []Track{}
	}
	return tracks, nil
}

// NewReleases calls GET {base}/browse/new-releases.
func (c *ProxyClient) NewReleases(ctx context.Context) ([]Release, error) {
	var releases []Release
	if err := getJSON(ctx, c.httpClient, c.logger, c.baseURL+"/browse/new-releases", "browse/new-releases", &releases); err != nil {
		return nil, err
	}
	if releases == nil {
		releases = []Release{}
	}
	return releases, nil
}

// getJSON performs a GET and decodes a 2xx JSON body into dst. Non-2xx
// responses become *UpstreamError.
func getJSON(ctx context.Context, client *http.Client, logger *slog.Logger, url, endpoint string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("music: building %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		logger.Warn("music request failed",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("music: requesting %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	logger.Debug("music request",
		slog.String("endpoint", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &UpstreamError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Body:     strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", ErrUpstream, endpoint, err)
	}
	return nil
}
