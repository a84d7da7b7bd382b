package auth

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"spincycle/internal/apperr"
	"spincycle/internal/model"
	"spincycle/internal/store"
)

const (
	minCodeLength     = 4
	minNameLength     = 2
	minPasswordLength = 6
)

var emailRegexp = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Mailer dispatches password-reset email. Implementations are best-effort
// external collaborators.
type Mailer interface {
	SendPasswordReset(toEmail string) error
}

// Service implements registration, login with household verification,
// logout, and account deletion over the identity and document stores.
type Service struct {
	accounts   *store.AccountStore
	users      *store.UserStore
	households *store.HouseholdStore
	tokens     *store.TokenStore
	mailer     Mailer
	logger     *slog.Logger
}

func NewService(
	accounts *store.AccountStore,
	users *store.UserStore,
	households *store.HouseholdStore,
	tokens *store.TokenStore,
	mailer Mailer,
	logger *slog.Logger,
) *Service {
	return &Service{
		accounts:   accounts,
		users:      users,
		households: households,
		tokens:     tokens,
		mailer:     mailer,
		logger:     logger,
	}
}

// Register creates the household (if absent), the credential account, the
// profile document, and the member entry, in that order. A profile-write
// failure deletes the just-created account so no credential is left without
// profile data; a member-write failure keeps the account and reports the
// error alongside the created user — partial success, never rolled back.
func (s *Service) Register(fullName, email, password, householdCode string) (*model.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	householdCode = strings.TrimSpace(householdCode)

	if err := validateRegistration(fullName, email, password, householdCode); err != nil {
		return nil, err
	}

	if _, err := s.households.EnsureHousehold(householdCode); err != nil {
		return nil, err
	}

	existing, err := s.accounts.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("email already registered: %w", apperr.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.accounts.Create(email, string(hash))
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(account.UID, fullName, email, householdCode)
	if err != nil {
		// Avoid an orphaned credential without profile data.
		if delErr := s.accounts.Delete(account.UID); delErr != nil {
			s.logger.Error("delete orphaned account", "uid", account.UID, "error", delErr)
		}
		return nil, err
	}

	if _, err := s.households.AddMember(householdCode, account.UID, fullName); err != nil {
		s.logger.Warn("account created but not fully joined", "uid", account.UID, "error", err)
		return user, fmt.Errorf("add member: %w", err)
	}

	return user, nil
}

// Login checks the credentials, establishes a token session, and then
// verifies the supplied household code against the registered profile. On a
// verification failure the just-created token is torn down before the error
// is returned, so the client never holds a credential paired with an
// unverified household.
func (s *Service) Login(email, password, householdCode string) (*model.AuthSession, *model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	householdCode = strings.TrimSpace(householdCode)

	if email == "" || password == "" || householdCode == "" {
		return nil, nil, fmt.Errorf("email, password and household code are required: %w", apperr.ErrValidation)
	}

	account, err := s.accounts.GetByEmail(email)
	if err != nil {
		return nil, nil, err
	}
	if account == nil {
		return nil, nil, apperr.ErrAuthenticationFailure
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperr.ErrAuthenticationFailure
	}

	sess, err := s.tokens.Create(account.UID)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.verifyHouseholdCode(account.UID, householdCode)
	if err != nil {
		if delErr := s.tokens.Delete(sess.ID); delErr != nil {
			s.logger.Error("tear down session", "uid", account.UID, "error", delErr)
		}
		return nil, nil, err
	}

	return sess, user, nil
}

// verifyHouseholdCode checks the supplied code against the code stored on the
// profile at registration. A missing profile is NotFound; a mismatch fails
// closed with an authorization error.
func (s *Service) verifyHouseholdCode(uid, supplied string) (*model.User, error) {
	user, err := s.users.GetByUID(uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user profile %s: %w", uid, apperr.ErrNotFound)
	}
	if user.HouseholdCode != supplied {
		return nil, apperr.ErrAuthorization
	}
	return user, nil
}

// SessionByToken returns the live token session, or nil when the token is
// unknown or expired.
func (s *Service) SessionByToken(token string) (*model.AuthSession, error) {
	return s.tokens.GetByToken(token)
}

// IsUserLoggedIn reports whether the token maps to a live session.
func (s *Service) IsUserLoggedIn(token string) bool {
	sess, err := s.tokens.GetByToken(token)
	if err != nil {
		s.logger.Error("look up token", "error", err)
		return false
	}
	return sess != nil
}

// Logout deletes the token session.
func (s *Service) Logout(tokenID int64) error {
	return s.tokens.Delete(tokenID)
}

// SendPasswordReset dispatches a reset email for the account, if one exists.
// An unknown address is reported as NotFound before any mail is sent.
func (s *Service) SendPasswordReset(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("malformed email: %w", apperr.ErrValidation)
	}
	account, err := s.accounts.GetByEmail(email)
	if err != nil {
		return err
	}
	if account == nil {
		return fmt.Errorf("account %s: %w", email, apperr.ErrNotFound)
	}
	return s.mailer.SendPasswordReset(email)
}

// DeleteAccount removes the profile document first, then the credential
// record and any live token sessions.
func (s *Service) DeleteAccount(uid string) error {
	if err := s.users.Delete(uid); err != nil {
		return err
	}
	if err := s.accounts.Delete(uid); err != nil {
		return err
	}
	return s.tokens.DeleteByUID(uid)
}

func validateRegistration(fullName, email, password, householdCode string) error {
	switch {
	case householdCode == "":
		return fmt.Errorf("household code is required: %w", apperr.ErrValidation)
	case len(householdCode) < minCodeLength:
		return fmt.Errorf("household code must be at least %d characters: %w", minCodeLength, apperr.ErrValidation)
	case fullName == "":
		return fmt.Errorf("full name is required: %w", apperr.ErrValidation)
	case len(fullName) < minNameLength:
		return fmt.Errorf("full name must be at least %d characters: %w", minNameLength, apperr.ErrValidation)
	case !emailRegexp.MatchString(email):
		return fmt.Errorf("malformed email: %w", apperr.ErrValidation)
	case len(password) < minPasswordLength:
		return fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, apperr.ErrValidation)
	}
	return nil
}
