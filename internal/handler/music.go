package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/songbook/internal/service"
)

// MusicHandler exposes the public catalog reads. Upstream failures map to
// 502, an open circuit breaker to 503 (see writeError).
type MusicHandler struct {
	music  *service.MusicService
	logger *slog.Logger
}

func NewMusicHandler(music *service.MusicService, logger *slog.Logger) *MusicHandler {
	return &MusicHandler{music: music, logger: logger}
}

// HTTP: GET /api/music/top-tracks
func (h *MusicHandler) HandleTopTracks(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.music.TopTracks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

// HTTP: GET /api/music/new-releases
func (h *MusicHandler) HandleNewReleases(w http.ResponseWriter, r *http.Request) {
	releases, err := h.music.NewReleases(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, releases)
}
