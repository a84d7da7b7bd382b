package store

import (
	"database/sql"
	"fmt"
	"time"

	"spincycle/internal/model"
)

// HouseholdStore maps household codes to household records and their member
// sets. Households are created lazily, the first time a code is used.
type HouseholdStore struct {
	db *sql.DB
}

func NewHouseholdStore(db *sql.DB) *HouseholdStore {
	return &HouseholdStore{db: db}
}

func scanHousehold(scanner interface{ Scan(...any) error }) (*model.Household, error) {
	var h model.Household
	err := scanner.Scan(&h.Code, &h.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func scanMember(scanner interface{ Scan(...any) error }) (*model.HouseholdMember, error) {
	var m model.HouseholdMember
	err := scanner.Scan(&m.HouseholdCode, &m.UID, &m.FullName, &m.JoinedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const memberCols = `household_code, uid, full_name, joined_at`

// EnsureHousehold creates the household for code if it does not exist yet.
// The insert is atomic, so any number of concurrent callers racing on a fresh
// code leave exactly one record, with the first writer's created_at.
func (s *HouseholdStore) EnsureHousehold(code string) (*model.Household, error) {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO households (code, created_at) VALUES (?, ?)`,
		code, time.Now().UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("ensure household %q: %w", code, err)
	}
	return s.GetByCode(code)
}

func (s *HouseholdStore) GetByCode(code string) (*model.Household, error) {
	row := s.db.QueryRow(`SELECT code, created_at FROM households WHERE code = ?`, code)
	h, err := scanHousehold(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get household: %w", err)
	}
	return h, nil
}

// AddMember upserts a member entry keyed by uid. Re-adding an existing member
// refreshes the display name but keeps the original joined_at.
func (s *HouseholdStore) AddMember(code, uid, fullName string) (*model.HouseholdMember, error) {
	_, err := s.db.Exec(
		`INSERT INTO household_members (household_code, uid, full_name, joined_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(household_code, uid) DO UPDATE SET full_name = excluded.full_name`,
		code, uid, fullName, time.Now().UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	return s.GetMember(code, uid)
}

func (s *HouseholdStore) RemoveMember(code, uid string) error {
	_, err := s.db.Exec(
		`DELETE FROM household_members WHERE household_code = ? AND uid = ?`,
		code, uid,
	)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

func (s *HouseholdStore) GetMember(code, uid string) (*model.HouseholdMember, error) {
	row := s.db.QueryRow(
		`SELECT `+memberCols+` FROM household_members WHERE household_code = ? AND uid = ?`,
		code, uid,
	)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

func (s *HouseholdStore) ListMembers(code string) ([]model.HouseholdMember, error) {
	rows, err := s.db.Query(
		`SELECT `+memberCols+` FROM household_members WHERE household_code = ? ORDER BY joined_at ASC`,
		code,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []model.HouseholdMember
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}
