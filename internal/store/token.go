package store

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"spincycle/internal/model"
)

// TokenStore manages login token sessions. A token is the only credential a
// device holds after login; tearing it down is how a failed household
// verification fails closed.
type TokenStore struct {
	db *sql.DB
}

func NewTokenStore(db *sql.DB) *TokenStore {
	return &TokenStore{db: db}
}

func scanAuthSession(scanner interface{ Scan(...any) error }) (*model.AuthSession, error) {
	var s model.AuthSession
	err := scanner.Scan(&s.ID, &s.Token, &s.UID, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

const authSessionCols = `id, token, uid, expires_at, created_at`

// Create issues a crypto-random token with a 90-day expiry.
func (s *TokenStore) Create(uid string) (*model.AuthSession, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	token := hex.EncodeToString(raw)
	expiresAt := time.Now().UTC().Add(90 * 24 * time.Hour)

	result, err := s.db.Exec(
		`INSERT INTO auth_sessions (token, uid, expires_at) VALUES (?, ?, ?)`,
		token, uid, expiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert auth session: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+authSessionCols+` FROM auth_sessions WHERE id = ?`, id)
	return scanAuthSession(row)
}

// GetByToken returns the session for the token, or nil if expired or unknown.
func (s *TokenStore) GetByToken(token string) (*model.AuthSession, error) {
	row := s.db.QueryRow(
		`SELECT `+authSessionCols+` FROM auth_sessions WHERE token = ? AND expires_at > datetime('now')`,
		token,
	)
	sess, err := scanAuthSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get auth session: %w", err)
	}
	return sess, nil
}

func (s *TokenStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM auth_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete auth session: %w", err)
	}
	return nil
}

func (s *TokenStore) DeleteByUID(uid string) error {
	_, err := s.db.Exec(`DELETE FROM auth_sessions WHERE uid = ?`, uid)
	if err != nil {
		return fmt.Errorf("delete auth sessions by uid: %w", err)
	}
	return nil
}

func (s *TokenStore) DeleteExpired() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM auth_sessions WHERE expires_at <= datetime('now')`)
	if err != nil {
		return 0, fmt.Errorf("delete expired auth sessions: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}
