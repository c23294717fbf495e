package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/songbook/internal/service"
)

type PlaylistHandler struct {
	playlists *service.PlaylistService
	songs     *service.SongService
	logger    *slog.Logger
}

func NewPlaylistHandler(playlists *service.PlaylistService, songs *service.SongService, logger *slog.Logger) *PlaylistHandler {
	return &PlaylistHandler{playlists: playlists, songs: songs, logger: logger}
}

type createPlaylistRequest struct {
	Title  string `json:"title" validate:"required"`
	ModeID string `json:"modeId"`
}

type updatePlaylistRequest struct {
	Title string `json:"title" validate:"required"`
}

// HTTP: GET /api/playlists
func (h *PlaylistHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.playlists.GetPlaylists(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlists)
}

// HTTP: POST /api/playlists
func (h *PlaylistHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createPlaylistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	playlist, err := h.playlists.CreatePlaylist(r.Context(), currentUser(r), req.Title, req.ModeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, playlist)
}

// HTTP: PUT /api/playlists/{id}
func (h *PlaylistHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updatePlaylistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	playlist, err := h.playlists.UpdatePlaylist(r.Context(), currentUser(r), chi.URLParam(r, "id"), req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

// HandleDelete removes a playlist; its songs stay in their categories.
//
// HTTP: DELETE /api/playlists/{id}
func (h *PlaylistHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.playlists.DeletePlaylist(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HTTP: GET /api/playlists/{id}/songs
func (h *PlaylistHandler) HandleListSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := h.songs.GetSongs(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}
