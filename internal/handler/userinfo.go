package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/songbook/internal/service"
)

// UserInfoHandler serves the musician profile attached to an account.
type UserInfoHandler struct {
	infos  *service.UserInfoService
	logger *slog.Logger
}

func NewUserInfoHandler(infos *service.UserInfoService, logger *slog.Logger) *UserInfoHandler {
	return &UserInfoHandler{infos: infos, logger: logger}
}

type userInfoRequest struct {
	Location   string `json:"location" validate:"max=100"`
	Skills     string `json:"skills" validate:"max=500"`
	Instrument string `json:"instrument" validate:"max=100"`
}

// HTTP: GET /api/me/info
func (h *UserInfoHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	info, err := h.infos.GetUserInfo(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// HandlePut overwrites every profile field; omitted fields are cleared.
//
// HTTP: PUT /api/me/info
func (h *UserInfoHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	var req userInfoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	info, err := h.infos.SetCurrentUserInfo(r.Context(), currentUser(r), req.Location, req.Skills, req.Instrument)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
