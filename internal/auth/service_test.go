package auth

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"spincycle/internal/apperr"
	"spincycle/internal/database"
	"spincycle/internal/store"
)

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) SendPasswordReset(toEmail string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, toEmail)
	return nil
}

func setupService(t *testing.T) (*Service, *fakeMailer, *sql.DB) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mailer := &fakeMailer{}
	svc := NewService(
		store.NewAccountStore(db),
		store.NewUserStore(db),
		store.NewHouseholdStore(db),
		store.NewTokenStore(db),
		mailer,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return svc, mailer, db
}

func TestRegister(t *testing.T) {
	svc, _, _ := setupService(t)

	user, err := svc.Register("John Doe", "john@example.com", "secret1", "A1B2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if user.FullName != "John Doe" {
		t.Errorf("full name = %q", user.FullName)
	}
	if user.Email != "john@example.com" {
		t.Errorf("email = %q", user.Email)
	}
	if user.HouseholdCode != "A1B2" {
		t.Errorf("household = %q", user.HouseholdCode)
	}

	// Registration also creates the household and the member entry.
	hh, err := svc.households.GetByCode("A1B2")
	if err != nil {
		t.Fatalf("get household: %v", err)
	}
	if hh == nil {
		t.Fatal("expected household to exist after registration")
	}
	member, err := svc.households.GetMember("A1B2", user.UID)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if member == nil {
		t.Fatal("expected member entry after registration")
	}
}

func TestRegisterNormalizesInput(t *testing.T) {
	svc, _, _ := setupService(t)

	user, err := svc.Register("  John Doe  ", "  John@Example.COM ", "secret1", " A1B2 ")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "john@example.com" {
		t.Errorf("email = %q, want lowercased and trimmed", user.Email)
	}
	if user.HouseholdCode != "A1B2" {
		t.Errorf("household = %q, want trimmed", user.HouseholdCode)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := setupService(t)

	cases := []struct {
		name                                 string
		fullName, email, password, household string
	}{
		{"missing household", "John Doe", "john@example.com", "secret1", ""},
		{"short household", "John Doe", "john@example.com", "secret1", "A1"},
		{"missing name", "", "john@example.com", "secret1", "A1B2"},
		{"short name", "J", "john@example.com", "secret1", "A1B2"},
		{"malformed email", "John Doe", "not-an-email", "secret1", "A1B2"},
		{"short password", "John Doe", "john@example.com", "12345", "A1B2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(tc.fullName, tc.email, tc.password, tc.household)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}

	// Validation fails before any write: no household left behind.
	hh, err := svc.households.GetByCode("A1")
	if err != nil {
		t.Fatalf("get household: %v", err)
	}
	if hh != nil {
		t.Error("validation failure must not create a household")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := setupService(t)

	if _, err := svc.Register("John Doe", "john@example.com", "secret1", "A1B2"); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register("Other John", "john@example.com", "secret1", "C3D4")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected ErrValidation for duplicate email, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _, _ := setupService(t)

	if _, err := svc.Register("John Doe", "john@example.com", "secret1", "A1B2"); err != nil {
		t.Fatalf("register: %v", err)
	}

	sess, user, err := svc.Login("john@example.com", "secret1", "A1B2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess == nil || sess.Token == "" {
		t.Fatal("expected a token session")
	}
	if user.FullName != "John Doe" {
		t.Errorf("full name = %q", user.FullName)
	}
	if !svc.IsUserLoggedIn(sess.Token) {
		t.Error("expected token to be live")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := setupService(t)

	if _, err := svc.Register("John Doe", "john@example.com", "secret1", "A1B2"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, err := svc.Login("john@example.com", "wrong", "A1B2")
	if !errors.Is(err, apperr.ErrAuthenticationFailure) {
		t.Fatalf("expected ErrAuthenticationFailure, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := setupService(t)

	_, _, err := svc.Login("nobody@example.com", "secret1", "A1B2")
	if !errors.Is(err, apperr.ErrAuthenticationFailure) {
		t.Fatalf("expected ErrAuthenticationFailure, got %v", err)
	}
}

func TestLoginHouseholdMismatchTearsDownToken(t *testing.T) {
	svc, _, db := setupService(t)

	if _, err := svc.Register("John Doe", "john@example.com", "secret1", "A1B2"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, err := svc.Login("john@example.com", "secret1", "WRONG")
	if !errors.Is(err, apperr.ErrAuthorization) {
		t.Fatalf("expected ErrAuthorization, got %v", err)
	}

	// The token created mid-login must not survive the failed verification.
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM auth_sessions`).Scan(&count); err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 live sessions after failed verification, got %d", count)
	}
}

func TestLogout(t *testing.T) {
	svc, _, _ := setupService(t)

	if _, err := svc.Register("John Doe", "john@example.com", "secret1", "A1B2"); err != nil {
		t.Fatalf("register: %v", err)
	}
	sess, _, err := svc.Login("john@example.com", "secret1", "A1B2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(sess.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if svc.IsUserLoggedIn(sess.Token) {
		t.Error("expected token to be dead after logout")
	}
}

func TestSendPasswordReset(t *testing.T) {
	svc, mailer, _ := setupService(t)

	if _, err := svc.Register("John Doe", "john@example.com", "secret1", "A1B2"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.SendPasswordReset("john@example.com"); err != nil {
		t.Fatalf("send reset: %v", err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "john@example.com" {
		t.Errorf("sent = %v", mailer.sent)
	}
}

func TestSendPasswordResetUnknownAccount(t *testing.T) {
	svc, mailer, _ := setupService(t)

	err := svc.SendPasswordReset("nobody@example.com")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Error("no mail should be sent for an unknown address")
	}
}

func TestSendPasswordResetMalformedEmail(t *testing.T) {
	svc, _, _ := setupService(t)

	err := svc.SendPasswordReset("not-an-email")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	svc, _, _ := setupService(t)

	user, err := svc.Register("John Doe", "john@example.com", "secret1", "A1B2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	sess, _, err := svc.Login("john@example.com", "secret1", "A1B2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.DeleteAccount(user.UID); err != nil {
		t.Fatalf("delete account: %v", err)
	}

	if svc.IsUserLoggedIn(sess.Token) {
		t.Error("expected token to be dead after account deletion")
	}
	account, err := svc.accounts.GetByEmail("john@example.com")
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if account != nil {
		t.Error("expected account to be gone")
	}
	profile, err := svc.users.GetByUID(user.UID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile != nil {
		t.Error("expected profile to be gone")
	}
}
