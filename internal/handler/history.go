package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"spincycle/internal/auth"
	"spincycle/internal/history"
	"spincycle/internal/store"
)

type HistoryHandler struct {
	sessions *store.SessionStore
	logger   *slog.Logger
}

func NewHistoryHandler(sessions *store.SessionStore, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{sessions: sessions, logger: logger}
}

// List reconstructs the household's history, newest first. A store failure
// mid-read surfaces the error together with whatever was read, rather than
// masking it with an empty page.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	limit := history.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > history.DefaultLimit {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be between 1 and 50"})
			return
		}
		limit = n
	}

	sessions, err := h.sessions.QueryHousehold(ac.HouseholdCode, limit)
	if err != nil {
		h.logger.Error("query history", "household", ac.HouseholdCode, "error", err)
		if len(sessions) == 0 {
			writeError(w, err)
			return
		}
		events := history.Reconstruct(sessions)
		writeJSON(w, http.StatusOK, map[string]any{
			"events":  events,
			"empty":   false,
			"partial": true,
			"error":   err.Error(),
		})
		return
	}

	events := history.Reconstruct(sessions)
	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"empty":  len(events) == 0,
	})
}
