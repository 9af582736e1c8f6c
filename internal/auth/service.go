package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/cgs/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")
)

// DefaultSessionTTL applies when NewService is given a non-positive TTL.
const DefaultSessionTTL = 24 * time.Hour

// Store defines the storage operations the Service needs.
// Implemented by storage.Store.
type Store interface {
	CreateUser(u storage.User) (storage.User, error)
	GetUserByEmail(email string) (storage.User, error)
	SetUserCredentials(email, passwordHash, role string) error
	CreateSession(s storage.Session) error
	GetSession(token string) (storage.Session, error)
	DeleteSession(token string) error
	DeleteExpiredSessions(now time.Time) (int64, error)
}

type Service struct {
	store    Store
	verifier CredentialVerifier
	ttl      time.Duration
	now      func() time.Time
}

func NewService(store Store, verifier CredentialVerifier, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{store: store, verifier: verifier, ttl: ttl, now: time.Now}
}

// Registration is the input to Register.
type Registration struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
	DOB      string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
}

// Session is a freshly issued login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Identity  Identity  `json:"user"`
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a student account and its empty profile.
func (s *Service) Register(r Registration) (storage.User, error) {
	hash, err := s.verifier.Hash(r.Password)
	if err != nil {
		return storage.User{}, err
	}
	u, err := s.store.CreateUser(storage.User{
		Name:         strings.TrimSpace(r.Name),
		Email:        NormalizeEmail(r.Email),
		PasswordHash: hash,
		DOB:          r.DOB,
		Role:         storage.RoleStudent,
	})
	if errors.Is(err, storage.ErrConflict) {
		return storage.User{}, ErrEmailTaken
	}
	if err != nil {
		return storage.User{}, fmt.Errorf("creating user: %w", err)
	}
	slog.Info("user registered", "email", u.Email)
	return u, nil
}

// Login checks credentials and issues a session token.
func (s *Service) Login(email, password string) (Session, error) {
	u, err := s.store.GetUserByEmail(NormalizeEmail(email))
	if errors.Is(err, storage.ErrNotFound) {
		return Session{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, ErrUserNotFound)
	}
	if err != nil {
		return Session{}, fmt.Errorf("loading user: %w", err)
	}
	if err := s.verifier.Verify(u.PasswordHash, password); err != nil {
		return Session{}, err
	}

	now := s.now().UTC().Truncate(time.Second)
	sess := storage.Session{
		Token:     uuid.NewString(),
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.CreateSession(sess); err != nil {
		return Session{}, fmt.Errorf("creating session: %w", err)
	}

	return Session{Token: sess.Token, ExpiresAt: sess.ExpiresAt, Identity: identityOf(sess)}, nil
}

// Logout invalidates token. Unknown tokens are not an error.
func (s *Service) Logout(token string) error {
	err := s.store.DeleteSession(token)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return nil
}

// Resolve maps a session token to the identity it was issued for. Expired
// sessions are deleted and reported as ErrInvalidSession.
func (s *Service) Resolve(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrInvalidSession
	}
	sess, err := s.store.GetSession(token)
	if errors.Is(err, storage.ErrNotFound) {
		return Identity{}, ErrInvalidSession
	}
	if err != nil {
		return Identity{}, fmt.Errorf("loading session: %w", err)
	}
	if !s.now().Before(sess.ExpiresAt) {
		if err := s.store.DeleteSession(token); err != nil && !errors.Is(err, storage.ErrNotFound) {
			slog.Warn("failed to delete expired session", "error", err)
		}
		return Identity{}, ErrInvalidSession
	}
	return identityOf(sess), nil
}

// EnsureAdmin creates the admin account, or resets its password and role if
// the email already exists.
func (s *Service) EnsureAdmin(email, password string) error {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return errors.New("admin email and password are required")
	}
	hash, err := s.verifier.Hash(password)
	if err != nil {
		return err
	}

	_, err = s.store.GetUserByEmail(email)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		if _, err := s.store.CreateUser(storage.User{Name: "Administrator", Email: email, PasswordHash: hash, Role: storage.RoleAdmin}); err != nil {
			return fmt.Errorf("creating admin: %w", err)
		}
		slog.Info("admin account created", "email", email)
		return nil
	case err != nil:
		return fmt.Errorf("loading admin: %w", err)
	}

	if err := s.store.SetUserCredentials(email, hash, storage.RoleAdmin); err != nil {
		return fmt.Errorf("updating admin: %w", err)
	}
	return nil
}

// PurgeExpired removes expired sessions.
func (s *Service) PurgeExpired() (int64, error) {
	return s.store.DeleteExpiredSessions(s.now())
}

func identityOf(sess storage.Session) Identity {
	return Identity{UserID: sess.UserID, Email: sess.Email, Name: sess.Name, Role: sess.Role}
}
