package music

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testTransportConfig() TransportConfig {
	return TransportConfig{
		Name:         "test",
		MinRequests:  2,
		FailureRatio: 0.5,
		Interval:     time.Minute,
		OpenTimeout:  time.Minute,
	}
}

func newTestProxy(t *testing.T, srv *httptest.Server, cfg TransportConfig) *ProxyClient {
	t.Helper()
	client := &http.Client{
		Timeout:   5 * time.Second,
		Transport: NewTransport(srv.Client().Transport, cfg, discardLogger()),
	}
	p, err := NewProxyClient(srv.URL+"/", client, discardLogger())
	require.NoError(t, err)
	return p
}

// =========================================================================
// PROXY CLIENT
// =========================================================================

func TestProxyClient_TopTracks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tracks/top", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":"t1","name":"Paranoid","artist":"Black Sabbath","album":"Paranoid","preview_url":"https://p/1","release_date":"1970-09-18"}]`)
	}))
	defer srv.Close()

	tracks, err := newTestProxy(t, srv, testTransportConfig()).TopTracks(context.Background())
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "Black Sabbath", tracks[0].Artist)
	assert.Equal(t, "https://p/1", tracks[0].PreviewURL)
	assert.Equal(t, "1970-09-18", tracks[0].ReleaseDate)
}

func TestProxyClient_NewReleases(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/browse/new-releases", r.URL.Path)
		io.WriteString(w, `[{"id":"a1","name":"New One","artist":"Band","album":"New One","image":null,"release_date":"2026-10-01","external_url":"https://open.spotify.com/album/a1","duration_ms":1000,"popularity":80}]`)
	}))
	defer srv.Close()

	releases, err := newTestProxy(t, srv, testTransportConfig()).NewReleases(context.Background())
	require.NoError(t, err)
	require.Len(t, releases, 1)
	assert.Equal(t, "https://open.spotify.com/album/a1", releases[0].ExternalURL)
	assert.Empty(t, releases[0].Image)
}

func TestProxyClient_NullBodyIsEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `null`)
	}))
	defer srv.Close()

	tracks, err := newTestProxy(t, srv, testTransportConfig()).TopTracks(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tracks)
	assert.Empty(t, tracks)
}

func TestProxyClient_Non2xxIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such chart", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestProxy(t, srv, testTransportConfig()).TopTracks(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstream))

	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusNotFound, upErr.Status)
	assert.Equal(t, "no such chart", upErr.Body)
}

func TestProxyClient_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{not json`)
	}))
	defer srv.Close()

	_, err := newTestProxy(t, srv, testTransportConfig()).NewReleases(context.Background())
	assert.True(t, errors.Is(err, ErrUpstream), "got %v", err)
}

func TestNewProxyClient_RequiresURL(t *testing.T) {
	_, err := NewProxyClient("  ", nil, nil)
	assert.Error(t, err)
}

// =========================================================================
// GUARDED TRANSPORT
// =========================================================================

func TestTransport_BreakerOpensOnServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := newTestProxy(t, srv, testTransportConfig())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := p.TopTracks(ctx)
		var upErr *UpstreamError
		require.True(t, errors.As(err, &upErr), "call %d: got %v", i, err)
		assert.Equal(t, http.StatusBadGateway, upErr.Status)
	}

	_, err := p.TopTracks(ctx)
	assert.True(t, errors.Is(err, ErrUnavailable), "got %v", err)
	assert.Equal(t, int32(2), hits.Load(), "open breaker must not reach the server")
}

func TestTransport_ClientErrorsDoNotTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := newTestProxy(t, srv, testTransportConfig())
	for i := 0; i < 5; i++ {
		_, err := p.TopTracks(context.Background())
		assert.False(t, errors.Is(err, ErrUnavailable), "call %d tripped the breaker", i)
	}
}

func TestTransport_RateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	cfg := testTransportConfig()
	cfg.RatePerSecond = 0.001
	cfg.Burst = 1
	p := newTestProxy(t, srv, cfg)

	_, err := p.TopTracks(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = p.TopTracks(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter")
}
