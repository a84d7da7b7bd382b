// Package history turns stored sessions into the display events the history
// screen renders. Reconstruction is read-only and deterministic: the same
// input always yields the same output, which is what makes pull-to-refresh
// safe to re-run.
package history

import "spincycle/internal/model"

// Kind distinguishes the two display events a session can yield.
type Kind string

const (
	Started Kind = "started"
	Stopped Kind = "stopped"
)

// UnknownUser is shown when a session record carries no user name.
const UnknownUser = "Unknown"

// DefaultLimit caps how many sessions a history query reads.
const DefaultLimit = 50

// Event is one entry in the newest-first history listing, derived from but
// not identical to a session record: one record yields up to two events.
type Event struct {
	SessionNumber int64  `json:"session_number"`
	Timestamp     int64  `json:"timestamp"`
	Kind          Kind   `json:"kind"`
	UserName      string `json:"user_name"`
}

// Reconstruct expands sessions, already ordered newest start first, into
// display events. For each session the stopped event comes first when an end
// time exists, since in a descending listing a stop is chronologically after
// its own start. The result is never nil; zero sessions yield a zero-length
// slice so callers can render an explicit empty state.
func Reconstruct(sessions []model.Session) []Event {
	events := make([]Event, 0, 2*len(sessions))
	for _, s := range sessions {
		name := s.UserName
		if name == "" {
			name = UnknownUser
		}
		if s.Completed() {
			events = append(events, Event{
				SessionNumber: s.SessionNumber,
				Timestamp:     *s.EndTime,
				Kind:          Stopped,
				UserName:      name,
			})
		}
		events = append(events, Event{
			SessionNumber: s.SessionNumber,
			Timestamp:     s.StartTime,
			Kind:          Started,
			UserName:      name,
		})
	}
	return events
}
