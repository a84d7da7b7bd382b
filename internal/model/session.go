package model

import (
	"fmt"
	"time"
)

// Session status tags. A session is completed iff EndTime is set.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
)

// Session is one start/stop cycle of appliance use. The ID is derived from
// the household code and session number, so retried writes land on the same
// record.
type Session struct {
	ID            string `json:"id"`
	HouseholdCode string `json:"household_code"`
	SessionNumber int64  `json:"session_number"`
	StartTime     int64  `json:"start_time"`
	EndTime       *int64 `json:"end_time,omitempty"`
	Status        string `json:"status"`
	UserName      string `json:"user_name"`
}

// SessionID derives the composite document key for a (household, number) pair.
func SessionID(householdCode string, sessionNumber int64) string {
	return fmt.Sprintf("%s_%d", householdCode, sessionNumber)
}

// Completed reports whether the session has been stopped.
func (s *Session) Completed() bool {
	return s.EndTime != nil && *s.EndTime > 0
}

// AuthSession is a login token session, unrelated to appliance sessions.
type AuthSession struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	UID       string    `json:"uid"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
