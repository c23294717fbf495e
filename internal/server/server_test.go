package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/songbook/internal/config"
)

func newTestServer(t *testing.T, proxyURL string) *Server {
	t.Helper()
	cfg := &config.Config{
		HTTP:     config.HTTP{Port: 8080, ShutdownTimeout: time.Second, CORSAllowedOrigins: []string{"https://app.example"}},
		Database: config.Database{Path: ":memory:"},
		Auth:     config.Auth{JWTSecret: "server-test-secret-0123456789", TokenTTL: time.Hour, BcryptCost: 4},
		Music: config.Music{
			Provider:      config.ProviderProxy,
			ProxyURL:      proxyURL,
			RatePerSecond: 100,
			Timeout:       time.Second,
		},
	}
	require.NoError(t, cfg.Validate())

	srv, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), "test")
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv
}

func do(t *testing.T, srv *Server, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, r)
	return rr
}

func fakeProxy(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/tracks/top":
			w.Write([]byte(`[{"id":"t1","name":"Song","artist":"Band"}]`))
		case "/browse/new-releases":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestServer_EndToEnd(t *testing.T) {
	srv := newTestServer(t, fakeProxy(t).URL)

	rr := do(t, srv, http.MethodPost, "/auth/register", `{"email":"ana@example.com","password":"s3cret-pass"}`, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var reg struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&reg))

	rr = do(t, srv, http.MethodPost, "/api/categories", `{"title":"Rock"}`, reg.Token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var cat struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&cat))

	rr = do(t, srv, http.MethodPost, "/api/songs", `{"title":"Paranoid","artist":"Black Sabbath","categoryId":"`+cat.ID+`"}`, reg.Token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = do(t, srv, http.MethodGet, "/api/categories/"+cat.ID+"/songs", "", reg.Token)
	require.Equal(t, http.StatusOK, rr.Code)
	var songs []map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&songs))
	assert.Len(t, songs, 1)
}

func TestServer_ProtectedRoutesNeedToken(t *testing.T) {
	srv := newTestServer(t, fakeProxy(t).URL)

	for _, path := range []string{"/api/me", "/api/categories", "/api/songs", "/api/playlists", "/api/me/info"} {
		rr := do(t, srv, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}

	rr := do(t, srv, http.MethodGet, "/api/categories", "", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestServer_PublicRoutes(t *testing.T) {
	srv := newTestServer(t, fakeProxy(t).URL)

	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/healthz", "", "").Code)
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/categories/defaults", "", "").Code)

	rr := do(t, srv, http.MethodGet, "/api/music/top-tracks", "", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"t1"`)

	rr = do(t, srv, http.MethodGet, "/api/music/new-releases", "", "")
	assert.Equal(t, http.StatusBadGateway, rr.Code)

	rr = do(t, srv, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), `route="/api/music/top-tracks"`))
}

func TestServer_CORSPreflight(t *testing.T) {
	srv := newTestServer(t, fakeProxy(t).URL)

	r := httptest.NewRequest(http.MethodOptions, "/api/categories", nil)
	r.Header.Set("Origin", "https://app.example")
	r.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, r)

	assert.Equal(t, "https://app.example", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestAllowsAnyOrigin(t *testing.T) {
	assert.True(t, allowsAnyOrigin([]string{"https://a", "*"}))
	assert.False(t, allowsAnyOrigin([]string{"https://a"}))
	assert.False(t, allowsAnyOrigin(nil))
}
