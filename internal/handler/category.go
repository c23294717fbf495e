package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/songbook/internal/service"
)

// CategoryHandler serves the user's genres and the built-in default list.
type CategoryHandler struct {
	categories *service.CategoryService
	logger     *slog.Logger
}

func NewCategoryHandler(categories *service.CategoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, logger: logger}
}

type categoryRequest struct {
	Title string `json:"title" validate:"required"`
}

// HandleList returns the user's categories.
//
// HTTP: GET /api/categories
func (h *CategoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.GetCategories(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// HandleCreate adds a category. A title the user already has, in any
// casing, answers 409.
//
// HTTP: POST /api/categories
// REQUEST BODY: {"title": "Rock"}
func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	category, err := h.categories.CreateCategory(r.Context(), currentUser(r), req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

// HandleUpdate renames a category.
//
// HTTP: PUT /api/categories/{id}
func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	category, err := h.categories.UpdateCategory(r.Context(), currentUser(r), chi.URLParam(r, "id"), req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// HandleDelete removes a category. Its songs are kept.
//
// HTTP: DELETE /api/categories/{id}
func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.DeleteCategory(r.Context(), currentUser(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListSongs returns the songs filed under one category.
//
// HTTP: GET /api/categories/{id}/songs
func (h *CategoryHandler) HandleListSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := h.categories.GetSongListByCategory(r.Context(), chi.URLParam(r, "id"), currentUser(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

// HandleDefaults lists the built-in genres a new user can pick from.
//
// HTTP: GET /api/categories/defaults (public)
func (h *CategoryHandler) HandleDefaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.categories.DefaultCategories())
}

// HandleSeedDefaults creates every default genre the user does not have yet
// and returns the ones it created.
//
// HTTP: POST /api/categories/defaults
func (h *CategoryHandler) HandleSeedDefaults(w http.ResponseWriter, r *http.Request) {
	created, err := h.categories.SeedDefaultCategories(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
