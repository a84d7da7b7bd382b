package prefs

import (
	"database/sql"
	"strconv"
	"time"
)

// SQLite stores preferences in the device_prefs table. All scalars are kept
// as text; typed accessors convert on the way out and report a miss for
// unparseable values.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) get(key string) (string, bool) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM device_prefs WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", false
	}
	return value, true
}

func (s *SQLite) set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO device_prefs (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	return err
}

func (s *SQLite) GetString(key string) (string, bool) { return s.get(key) }

func (s *SQLite) SetString(key, value string) error { return s.set(key, value) }

func (s *SQLite) GetInt64(key string) (int64, bool) {
	raw, ok := s.get(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (s *SQLite) SetInt64(key string, value int64) error {
	return s.set(key, strconv.FormatInt(value, 10))
}

func (s *SQLite) GetBool(key string) (bool, bool) {
	raw, ok := s.get(key)
	if !ok {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

func (s *SQLite) SetBool(key string, value bool) error {
	return s.set(key, strconv.FormatBool(value))
}
