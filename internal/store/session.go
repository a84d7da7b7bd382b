package store

import (
	"database/sql"
	"fmt"

	"spincycle/internal/apperr"
	"spincycle/internal/model"
)

// SessionStore persists appliance sessions, an append-mostly multi-writer log
// keyed by (household_code, session_number). Records are created by a start
// event, mutated exactly once by a stop event, and never deleted.
type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

func scanSession(scanner interface{ Scan(...any) error }) (*model.Session, error) {
	var s model.Session
	var endTime sql.NullInt64
	err := scanner.Scan(&s.ID, &s.HouseholdCode, &s.SessionNumber, &s.StartTime, &endTime, &s.Status, &s.UserName)
	if err != nil {
		return nil, err
	}
	if endTime.Valid {
		s.EndTime = &endTime.Int64
	}
	return &s, nil
}

const sessionCols = `id, household_code, session_number, start_time, end_time, status, user_name`

// StartSession allocates the next session number for the household and writes
// the new active record in a single transaction. Number allocation lives here,
// not in any device-local cache, so concurrent starts from two household
// members cannot collide on a number.
func (s *SessionStore) StartSession(householdCode, userName string, startTime int64) (*model.Session, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var next int64
	err = tx.QueryRow(
		`SELECT COALESCE(MAX(session_number), 0) + 1 FROM machine_sessions WHERE household_code = ?`,
		householdCode,
	).Scan(&next)
	if err != nil {
		return nil, fmt.Errorf("allocate session number: %w", err)
	}

	id := model.SessionID(householdCode, next)
	_, err = tx.Exec(
		`INSERT INTO machine_sessions (id, household_code, session_number, start_time, status, user_name)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, householdCode, next, startTime, model.SessionActive, userName,
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

// Create writes a session record at its derived key. Writing the same record
// twice is a no-op; an existing record with materially different start_time
// or user_name indicates a session-number collision and fails with
// apperr.ErrWriteConflict.
func (s *SessionStore) Create(sess *model.Session) error {
	id := model.SessionID(sess.HouseholdCode, sess.SessionNumber)

	existing, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.StartTime != sess.StartTime || existing.UserName != sess.UserName {
			return fmt.Errorf("session %s: %w", id, apperr.ErrWriteConflict)
		}
		return nil
	}

	var endTime any
	if sess.EndTime != nil {
		endTime = *sess.EndTime
	}
	status := sess.Status
	if status == "" {
		status = model.SessionActive
	}
	_, err = s.db.Exec(
		`INSERT INTO machine_sessions (id, household_code, session_number, start_time, end_time, status, user_name)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		id, sess.HouseholdCode, sess.SessionNumber, sess.StartTime, endTime, status, sess.UserName,
	)
	if err != nil {
		return fmt.Errorf("insert session %s: %w", id, err)
	}
	return nil
}

// MarkStopped records the stop event on the existing active record. Only
// end_time and status change; the composite key stays, so no new record can
// appear. Returns apperr.ErrNotFound when no matching active record exists.
func (s *SessionStore) MarkStopped(householdCode string, sessionNumber, endTime int64) (*model.Session, error) {
	id := model.SessionID(householdCode, sessionNumber)
	result, err := s.db.Exec(
		`UPDATE machine_sessions SET end_time = ?, status = ?
		 WHERE id = ? AND status = ?`,
		endTime, model.SessionCompleted, id, model.SessionActive,
	)
	if err != nil {
		return nil, fmt.Errorf("mark stopped %s: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("active session %s: %w", id, apperr.ErrNotFound)
	}
	return s.GetByID(id)
}

func (s *SessionStore) GetByID(id string) (*model.Session, error) {
	row := s.db.QueryRow(`SELECT `+sessionCols+` FROM machine_sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

func (s *SessionStore) Get(householdCode string, sessionNumber int64) (*model.Session, error) {
	return s.GetByID(model.SessionID(householdCode, sessionNumber))
}

// QueryHousehold returns up to limit sessions for the household, most recent
// start first. A scan failure mid-result surfaces the error together with the
// rows read so far.
func (s *SessionStore) QueryHousehold(householdCode string, limit int) ([]model.Session, error) {
	rows, err := s.db.Query(
		`SELECT `+sessionCols+` FROM machine_sessions
		 WHERE household_code = ? ORDER BY start_time DESC LIMIT ?`,
		householdCode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query household sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return sessions, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

// LatestByHousehold returns the most recently started session, or nil when
// the household has none. Used to resume machine state after a restart.
func (s *SessionStore) LatestByHousehold(householdCode string) (*model.Session, error) {
	row := s.db.QueryRow(
		`SELECT `+sessionCols+` FROM machine_sessions
		 WHERE household_code = ? ORDER BY start_time DESC, session_number DESC LIMIT 1`,
		householdCode,
	)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest session: %w", err)
	}
	return sess, nil
}
