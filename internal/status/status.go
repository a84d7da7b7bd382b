// Package status maintains the device's last-known appliance status. It is a
// display-oriented projection of the session log, never a second source of
// truth: history readers go to the session store directly.
package status

import (
	"time"

	"spincycle/internal/prefs"
)

// Appliance status labels shown on the dashboard.
const (
	Idle     = "Idle"
	Spinning = "Spinning"
)

// Display defaults when nothing has ever been written.
const (
	IdleDescription     = "Your washing machine is idle."
	SpinningDescription = "Your washing machine is currently spinning."
	IdleColor           = "#9E9E9E"
	SpinningColor       = "#43A047"
)

const (
	keyStatus           = "machineStatus"
	keyDescription      = "machineDescription"
	keyColor            = "machineColor"
	keyLastUpdated      = "lastUpdated"
	keySessionNumber    = "sessionNumber"
	keySessionStartTime = "sessionStartTime"
	keySessionUserName  = "sessionUserName"
)

// Snapshot is the device's belief about the appliance and the open session.
type Snapshot struct {
	Status           string `json:"status"`
	Description      string `json:"description"`
	Color            string `json:"color"`
	LastUpdated      int64  `json:"last_updated"`
	SessionNumber    int64  `json:"session_number"`
	SessionStartTime int64  `json:"session_start_time"`
	UserName         string `json:"user_name"`
}

// Cache wraps a prefs.Store with the status projection. Reads never fail and
// never block on the network; a missing field falls back to its default.
type Cache struct {
	store prefs.Store
}

func NewCache(store prefs.Store) *Cache {
	return &Cache{store: store}
}

// Get returns the last-written snapshot, with idle defaults when nothing has
// been written yet.
func (c *Cache) Get() Snapshot {
	snap := Snapshot{
		Status:      Idle,
		Description: IdleDescription,
		Color:       IdleColor,
	}
	if v, ok := c.store.GetString(keyStatus); ok {
		snap.Status = v
	}
	if v, ok := c.store.GetString(keyDescription); ok {
		snap.Description = v
	}
	if v, ok := c.store.GetString(keyColor); ok {
		snap.Color = v
	}
	if v, ok := c.store.GetInt64(keyLastUpdated); ok {
		snap.LastUpdated = v
	}
	if v, ok := c.store.GetInt64(keySessionNumber); ok {
		snap.SessionNumber = v
	}
	if v, ok := c.store.GetInt64(keySessionStartTime); ok {
		snap.SessionStartTime = v
	}
	if v, ok := c.store.GetString(keySessionUserName); ok {
		snap.UserName = v
	}
	return snap
}

// Set overwrites the display fields, last write wins.
func (c *Cache) Set(stat, description, color string) error {
	if err := c.store.SetString(keyStatus, stat); err != nil {
		return err
	}
	if err := c.store.SetString(keyDescription, description); err != nil {
		return err
	}
	return c.store.SetString(keyColor, color)
}

// SetSession records the device's belief about the currently open session.
// It resumes UI state only; it never adjudicates conflicts between devices.
func (c *Cache) SetSession(number, startTime int64, userName string) error {
	if err := c.store.SetInt64(keySessionNumber, number); err != nil {
		return err
	}
	if err := c.store.SetInt64(keySessionStartTime, startTime); err != nil {
		return err
	}
	return c.store.SetString(keySessionUserName, userName)
}

// TouchLastUpdated refreshes the freshness timestamp without touching the
// status fields, so a manual refresh registers even when nothing changed.
func (c *Cache) TouchLastUpdated() error {
	return c.store.SetInt64(keyLastUpdated, time.Now().UnixMilli())
}

// IsSpinning reports whether the cached status is Spinning.
func (c *Cache) IsSpinning() bool {
	return c.Get().Status == Spinning
}
