package handler

import (
	"log/slog"
	"net/http"

	"spincycle/internal/auth"
	"spincycle/internal/machine"
	"spincycle/internal/status"
)

type MachineHandler struct {
	registry *machine.Registry
	caches   func(householdCode string) *status.Cache
	logger   *slog.Logger
}

func NewMachineHandler(registry *machine.Registry, caches func(string) *status.Cache, logger *slog.Logger) *MachineHandler {
	return &MachineHandler{registry: registry, caches: caches, logger: logger}
}

func (h *MachineHandler) Start(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	m, err := h.registry.Get(ac.HouseholdCode)
	if err != nil {
		writeError(w, err)
		return
	}

	sess, err := m.Start(ac.FullName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (h *MachineHandler) Stop(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	m, err := h.registry.Get(ac.HouseholdCode)
	if err != nil {
		writeError(w, err)
		return
	}

	sess, err := m.Stop()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// Status returns the cached snapshot plus the machine's logical state. The
// snapshot is display-only and comes from the local cache, never the log.
func (h *MachineHandler) Status(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	m, err := h.registry.Get(ac.HouseholdCode)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"state":    m.State().String(),
		"snapshot": h.caches(ac.HouseholdCode).Get(),
	})
}

// Refresh bumps the freshness timestamp without touching the status, so a
// manual pull-to-refresh registers even when nothing changed.
func (h *MachineHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	cache := h.caches(ac.HouseholdCode)
	if err := cache.TouchLastUpdated(); err != nil {
		h.logger.Error("touch last updated", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to refresh"})
		return
	}
	writeJSON(w, http.StatusOK, cache.Get())
}
