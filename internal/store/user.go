package store

import (
	"database/sql"
	"fmt"
	"time"

	"spincycle/internal/model"
)

// UserStore holds profile documents keyed by uid. The household code on a
// profile is written once at registration and is what login verification
// checks against.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := scanner.Scan(&u.UID, &u.FullName, &u.Email, &u.HouseholdCode, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const userCols = `uid, full_name, email, household_code, created_at`

func (s *UserStore) Create(uid, fullName, email, householdCode string) (*model.User, error) {
	_, err := s.db.Exec(
		`INSERT INTO users (uid, full_name, email, household_code, created_at) VALUES (?, ?, ?, ?, ?)`,
		uid, fullName, email, householdCode, time.Now().UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return s.GetByUID(uid)
}

func (s *UserStore) GetByUID(uid string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE uid = ?`, uid)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) Delete(uid string) error {
	_, err := s.db.Exec(`DELETE FROM users WHERE uid = ?`, uid)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
