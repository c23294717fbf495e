package handler

import (
	"log/slog"
	"net/http"
)

// Pinger is the part of the database the health check needs.
type Pinger interface {
	Ping() error
}

type HealthHandler struct {
	db      Pinger
	version string
	logger  *slog.Logger
}

func NewHealthHandler(db Pinger, version string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, version: version, logger: logger}
}

// HandleHealth answers 200 when the database is reachable and 503 otherwise.
//
// HTTP: GET /healthz
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(); err != nil {
		h.logger.Error("health check failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "unavailable",
			"version": h.version,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}
