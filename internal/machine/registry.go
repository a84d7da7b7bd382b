package machine

import (
	"log/slog"
	"sync"

	"spincycle/internal/status"
	"spincycle/internal/store"
)

// Registry hands out one Machine per household code, constructing them
// lazily on first use.
type Registry struct {
	mu       sync.Mutex
	machines map[string]*Machine
	sessions *store.SessionStore
	caches   func(householdCode string) *status.Cache
	notify   func(Change)
	logger   *slog.Logger
}

func NewRegistry(sessions *store.SessionStore, caches func(string) *status.Cache, notify func(Change), logger *slog.Logger) *Registry {
	return &Registry{
		machines: make(map[string]*Machine),
		sessions: sessions,
		caches:   caches,
		notify:   notify,
		logger:   logger,
	}
}

// Get returns the household's machine, creating and resuming it on first use.
func (r *Registry) Get(householdCode string) (*Machine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.machines[householdCode]; ok {
		return m, nil
	}
	m, err := New(householdCode, r.sessions, r.caches(householdCode), r.notify, r.logger.With("household", householdCode))
	if err != nil {
		return nil, err
	}
	r.machines[householdCode] = m
	return m, nil
}
