package store

import (
	"testing"

	"spincycle/internal/database"
)

func setupTokenTestDB(t *testing.T) (*TokenStore, *AccountStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewTokenStore(db), NewAccountStore(db)
}

func TestTokenCreate(t *testing.T) {
	ts, as := setupTokenTestDB(t)

	a, err := as.Create("alice@example.com", "hash")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	sess, err := ts.Create(a.UID)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	if len(sess.Token) != 64 { // 32 bytes hex-encoded
		t.Errorf("token length = %d, want 64", len(sess.Token))
	}
	if sess.UID != a.UID {
		t.Errorf("uid = %q, want %q", sess.UID, a.UID)
	}
}

func TestTokenGetByToken(t *testing.T) {
	ts, as := setupTokenTestDB(t)

	a, _ := as.Create("alice@example.com", "hash")
	created, _ := ts.Create(a.UID)

	sess, err := ts.GetByToken(created.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if sess == nil {
		t.Fatal("expected session, got nil")
	}
	if sess.ID != created.ID {
		t.Errorf("id = %d, want %d", sess.ID, created.ID)
	}
}

func TestTokenGetByTokenUnknown(t *testing.T) {
	ts, _ := setupTokenTestDB(t)

	sess, err := ts.GetByToken("nonexistent")
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if sess != nil {
		t.Error("expected nil for unknown token")
	}
}

func TestTokenDelete(t *testing.T) {
	ts, as := setupTokenTestDB(t)

	a, _ := as.Create("alice@example.com", "hash")
	created, _ := ts.Create(a.UID)

	if err := ts.Delete(created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	sess, err := ts.GetByToken(created.Token)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if sess != nil {
		t.Error("expected nil after delete")
	}
}

func TestTokenDeleteByUID(t *testing.T) {
	ts, as := setupTokenTestDB(t)

	a, _ := as.Create("alice@example.com", "hash")
	ts.Create(a.UID)
	ts.Create(a.UID)

	if err := ts.DeleteByUID(a.UID); err != nil {
		t.Fatalf("delete by uid: %v", err)
	}

	var count int
	ts.db.QueryRow(`SELECT COUNT(*) FROM auth_sessions WHERE uid = ?`, a.UID).Scan(&count)
	if count != 0 {
		t.Errorf("expected 0 sessions, got %d", count)
	}
}
