package prefs

import (
	"testing"

	"spincycle/internal/database"
)

func TestMemoryMissingKeys(t *testing.T) {
	m := NewMemory()

	if _, ok := m.GetString("missing"); ok {
		t.Error("expected miss for unset string key")
	}
	if _, ok := m.GetInt64("missing"); ok {
		t.Error("expected miss for unset int key")
	}
	if _, ok := m.GetBool("missing"); ok {
		t.Error("expected miss for unset bool key")
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()

	if err := m.SetString("status", "Spinning"); err != nil {
		t.Fatalf("set string: %v", err)
	}
	if err := m.SetInt64("number", 7); err != nil {
		t.Fatalf("set int: %v", err)
	}
	if err := m.SetBool("dirty", true); err != nil {
		t.Fatalf("set bool: %v", err)
	}

	if v, ok := m.GetString("status"); !ok || v != "Spinning" {
		t.Errorf("GetString = %q, %v", v, ok)
	}
	if v, ok := m.GetInt64("number"); !ok || v != 7 {
		t.Errorf("GetInt64 = %d, %v", v, ok)
	}
	if v, ok := m.GetBool("dirty"); !ok || !v {
		t.Errorf("GetBool = %v, %v", v, ok)
	}
}

func TestMemoryLastWriteWins(t *testing.T) {
	m := NewMemory()

	m.SetString("status", "Idle")
	m.SetString("status", "Spinning")

	if v, _ := m.GetString("status"); v != "Spinning" {
		t.Errorf("status = %q, want Spinning", v)
	}
}

func setupSQLiteStore(t *testing.T) *SQLite {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLite(db)
}

func TestSQLiteRoundTrip(t *testing.T) {
	s := setupSQLiteStore(t)

	if err := s.SetString("status", "Idle"); err != nil {
		t.Fatalf("set string: %v", err)
	}
	if err := s.SetInt64("lastUpdated", 1700000000000); err != nil {
		t.Fatalf("set int: %v", err)
	}
	if err := s.SetBool("seen", false); err != nil {
		t.Fatalf("set bool: %v", err)
	}

	if v, ok := s.GetString("status"); !ok || v != "Idle" {
		t.Errorf("GetString = %q, %v", v, ok)
	}
	if v, ok := s.GetInt64("lastUpdated"); !ok || v != 1700000000000 {
		t.Errorf("GetInt64 = %d, %v", v, ok)
	}
	if v, ok := s.GetBool("seen"); !ok || v {
		t.Errorf("GetBool = %v, %v", v, ok)
	}
}

func TestSQLiteUpsert(t *testing.T) {
	s := setupSQLiteStore(t)

	s.SetInt64("number", 1)
	s.SetInt64("number", 2)

	if v, _ := s.GetInt64("number"); v != 2 {
		t.Errorf("number = %d, want 2", v)
	}
}

func TestSQLiteTypeMismatchIsMiss(t *testing.T) {
	s := setupSQLiteStore(t)

	s.SetString("number", "not a number")

	if _, ok := s.GetInt64("number"); ok {
		t.Error("expected miss when stored value is not an integer")
	}
	if _, ok := s.GetBool("number"); ok {
		t.Error("expected miss when stored value is not a bool")
	}
}

func TestNamespacedIsolation(t *testing.T) {
	base := NewMemory()
	a := Namespaced(base, "A1B2.")
	b := Namespaced(base, "C3D4.")

	a.SetString("status", "Spinning")
	b.SetString("status", "Idle")

	if v, _ := a.GetString("status"); v != "Spinning" {
		t.Errorf("a status = %q, want Spinning", v)
	}
	if v, _ := b.GetString("status"); v != "Idle" {
		t.Errorf("b status = %q, want Idle", v)
	}
	if v, _ := base.GetString("A1B2.status"); v != "Spinning" {
		t.Errorf("underlying key = %q, want Spinning", v)
	}
}
