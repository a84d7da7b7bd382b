package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"spincycle/internal/model"
)

// AccountStore holds the credential records issued by the identity layer.
// It stands in for the hosted identity provider: it mints stable uids and
// never exposes password hashes past the auth service.
type AccountStore struct {
	db *sql.DB
}

func NewAccountStore(db *sql.DB) *AccountStore {
	return &AccountStore{db: db}
}

func scanAccount(scanner interface{ Scan(...any) error }) (*model.Account, error) {
	var a model.Account
	err := scanner.Scan(&a.UID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

const accountCols = `uid, email, password_hash, created_at`

// Create mints a new uid and writes the credential record. The email must be
// unused; a duplicate surfaces as a constraint error from the driver.
func (s *AccountStore) Create(email, passwordHash string) (*model.Account, error) {
	uid := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO accounts (uid, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		uid, email, passwordHash, time.Now().UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return s.GetByUID(uid)
}

func (s *AccountStore) GetByUID(uid string) (*model.Account, error) {
	row := s.db.QueryRow(`SELECT `+accountCols+` FROM accounts WHERE uid = ?`, uid)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (s *AccountStore) GetByEmail(email string) (*model.Account, error) {
	row := s.db.QueryRow(`SELECT `+accountCols+` FROM accounts WHERE email = ?`, email)
	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get account by email: %w", err)
	}
	return a, nil
}

func (s *AccountStore) Delete(uid string) error {
	_, err := s.db.Exec(`DELETE FROM accounts WHERE uid = ?`, uid)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}
