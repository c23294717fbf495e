package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/songbook/internal/apperror"
	"github.com/sakif/songbook/internal/service"
	"github.com/sakif/songbook/internal/view"
)

// SongHandler serves songs, their flags and their practice details.
type SongHandler struct {
	songs      *service.SongService
	categories *service.CategoryService
	logger     *slog.Logger
}

func NewSongHandler(songs *service.SongService, categories *service.CategoryService, logger *slog.Logger) *SongHandler {
	return &SongHandler{songs: songs, categories: categories, logger: logger}
}

type createSongRequest struct {
	Title      string `json:"title" validate:"required"`
	Artist     string `json:"artist" validate:"required"`
	CategoryID string `json:"categoryId" validate:"required"`
	PlaylistID string `json:"playlistId"`
}

// patchSongRequest carries optional flags; a nil field is left as stored.
type patchSongRequest struct {
	IsDone     *bool `json:"isDone"`
	IsFavorite *bool `json:"isFavorite"`
}

type songDetailsRequest struct {
	Key       string   `json:"key" validate:"max=12"`
	ChordList []string `json:"chordList" validate:"max=64"`
	Notes     string   `json:"notes"`
	LyricLink string   `json:"lyricLink"`
	TabLink   string   `json:"tabLink"`
}

// HandleList returns every song of the user, or those of one category when
// ?categoryId= is given.
//
// HTTP: GET /api/songs[?categoryId=...]
func (h *SongHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var (
		songs []view.SongView
		err   error
	)
	if categoryID := r.URL.Query().Get("categoryId"); categoryID != "" {
		songs, err = h.categories.GetSongListByCategory(r.Context(), categoryID, currentUser(r))
	} else {
		songs, err = h.categories.GetAllSongsByUserID(r.Context(), currentUser(r))
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

// HandleCreate adds a song. Without a playlistId the response is the
// shorter category-only projection.
//
// HTTP: POST /api/songs
// REQUEST BODY: {"title": "...", "artist": "...", "categoryId": "...", "playlistId": "..."}
func (h *SongHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createSongRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	userID := currentUser(r)
	if req.PlaylistID == "" {
		song, err := h.songs.CreateSongWithoutPlaylist(r.Context(), userID, req.Title, req.Artist, req.CategoryID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, song)
		return
	}

	song, err := h.songs.CreateSong(r.Context(), userID, req.Title, req.Artist, req.CategoryID, req.PlaylistID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, song)
}

// HandlePatch updates the done and/or favorite flags.
//
// HTTP: PATCH /api/songs/{id}
// REQUEST BODY: {"isDone": true} or {"isFavorite": false} or both
func (h *SongHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	var req patchSongRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.IsDone == nil && req.IsFavorite == nil {
		writeError(w, apperror.ValidationFailed("", "isDone or isFavorite is required"))
		return
	}

	userID, songID := currentUser(r), chi.URLParam(r, "id")

	var (
		song *view.SongView
		err  error
	)
	if req.IsDone != nil {
		if song, err = h.songs.SetSongDone(r.Context(), userID, songID, *req.IsDone); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.IsFavorite != nil {
		if song, err = h.songs.SetSongFavorite(r.Context(), userID, songID, *req.IsFavorite); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, song)
}

// HandleDelete removes a song and its details.
//
// HTTP: DELETE /api/songs/{id}
func (h *SongHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.songs.DeleteSong(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGetDetails returns the practice sheet of a song, empty if none was
// saved yet.
//
// HTTP: GET /api/songs/{id}/details
func (h *SongHandler) HandleGetDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.songs.GetSongDetails(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// HandlePutDetails replaces the practice sheet of a song.
//
// HTTP: PUT /api/songs/{id}/details
func (h *SongHandler) HandlePutDetails(w http.ResponseWriter, r *http.Request) {
	var req songDetailsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	details, err := h.songs.SaveSongDetails(r.Context(), currentUser(r), chi.URLParam(r, "id"), service.SongDetailsInput{
		Key:       req.Key,
		ChordList: req.ChordList,
		Notes:     req.Notes,
		LyricLink: req.LyricLink,
		TabLink:   req.TabLink,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}
