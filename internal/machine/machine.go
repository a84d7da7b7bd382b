// Package machine holds the appliance session state machine. A Machine's
// state is a cache of conversational intent for one household on this
// instance, not a distributed lock: another device starting a session for the
// same household is not prevented here, only reconciled eventually through
// the session store.
package machine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"spincycle/internal/apperr"
	"spincycle/internal/model"
	"spincycle/internal/status"
	"spincycle/internal/store"
)

// State is the appliance's logical state.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Change describes a completed transition, delivered to the notify callback.
// Callbacks are best-effort: the receiver may already be gone.
type Change struct {
	HouseholdCode string
	Action        string // "started" or "stopped"
	Session       *model.Session
}

// Machine governs start/stop transitions for one household and writes
// through to the session store and the local status cache.
type Machine struct {
	mu            sync.Mutex
	householdCode string
	state         State
	current       *model.Session
	sessions      *store.SessionStore
	cache         *status.Cache
	notify        func(Change)
	logger        *slog.Logger
	now           func() time.Time
}

// New builds a Machine for the household, resuming Running when the latest
// stored session is still active. Resume is advisory only.
func New(householdCode string, sessions *store.SessionStore, cache *status.Cache, notify func(Change), logger *slog.Logger) (*Machine, error) {
	m := &Machine{
		householdCode: householdCode,
		state:         Idle,
		sessions:      sessions,
		cache:         cache,
		notify:        notify,
		logger:        logger,
		now:           time.Now,
	}

	latest, err := sessions.LatestByHousehold(householdCode)
	if err != nil {
		return nil, fmt.Errorf("resume machine state: %w", err)
	}
	if latest != nil && latest.Status == model.SessionActive {
		m.state = Running
		m.current = latest
	}
	return m, nil
}

// Start begins a new session, allowed only from Idle. The session number is
// allocated by the store, so a failure leaves no local or stored state behind.
func (m *Machine) Start(userName string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Idle {
		return nil, fmt.Errorf("start while %s: %w", m.state, apperr.ErrInvalidTransition)
	}

	sess, err := m.sessions.StartSession(m.householdCode, userName, m.now().UnixMilli())
	if err != nil {
		return nil, err
	}

	m.state = Running
	m.current = sess
	m.updateCache(status.Spinning, status.SpinningDescription, status.SpinningColor, sess)
	m.emit("started", sess)
	return sess, nil
}

// Stop completes the currently open session, allowed only from Running. The
// stop lands on the existing record; no new record is created.
func (m *Machine) Stop() (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Running || m.current == nil {
		return nil, fmt.Errorf("stop while %s: %w", m.state, apperr.ErrInvalidTransition)
	}

	sess, err := m.sessions.MarkStopped(m.householdCode, m.current.SessionNumber, m.now().UnixMilli())
	if err != nil {
		return nil, err
	}

	m.state = Idle
	m.current = nil
	m.updateCache(status.Idle, status.IdleDescription, status.IdleColor, sess)
	m.emit("stopped", sess)
	return sess, nil
}

// State returns the machine's current logical state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Current returns the open session, or nil when idle.
func (m *Machine) Current() *model.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// updateCache projects the transition onto the local status cache. The cache
// is display-only, so a write failure is logged and does not undo the
// transition already recorded in the store.
func (m *Machine) updateCache(stat, description, color string, sess *model.Session) {
	if err := m.cache.Set(stat, description, color); err != nil {
		m.logger.Error("update status cache", "error", err)
	}
	if err := m.cache.SetSession(sess.SessionNumber, sess.StartTime, sess.UserName); err != nil {
		m.logger.Error("update session cache", "error", err)
	}
	if err := m.cache.TouchLastUpdated(); err != nil {
		m.logger.Error("touch last updated", "error", err)
	}
}

func (m *Machine) emit(action string, sess *model.Session) {
	if m.notify == nil {
		return
	}
	m.notify(Change{
		HouseholdCode: m.householdCode,
		Action:        action,
		Session:       sess,
	})
}
