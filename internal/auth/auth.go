package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSessionExpired     = errors.New("session expired")
	ErrUserDisabled       = errors.New("user disabled")
	ErrWeakPassword       = errors.New("password too short (min 8 characters)")
)

// Store is the subset of the repository the auth service needs.
type Store interface {
	CreateUser(ctx context.Context, u core.User) error
	GetUserByID(ctx context.Context, id string) (core.User, error)
	GetUserByEmail(ctx context.Context, email string) (core.User, error)
	CreateSession(ctx context.Context, s core.Session) error
	GetSession(ctx context.Context, token string) (core.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// Service issues bearer-token sessions backed by bcrypt password hashes.
type Service struct {
	store      Store
	sessionTTL time.Duration
	logger     *log.Logger
}

func NewService(store Store, sessionTTL time.Duration, logger *log.Logger) *Service {
	return &Service{
		store:      store,
		sessionTTL: sessionTTL,
		logger:     logger.WithComponent(log.ComponentAuth),
	}
}

// Signup registers a new user. The first registered user would normally be
// promoted by an admin; all signups start with the user role.
func (s *Service) Signup(ctx context.Context, email, password, name string) (core.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(password) < 8 {
		return core.User{}, ErrWeakPassword
	}

	u := core.User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      strings.TrimSpace(name),
		Role:      core.RoleUser,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := u.Validate(); err != nil {
		return core.User{}, err
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return core.User{}, ErrEmailTaken
	} else if !errors.Is(err, storage.ErrNotFound) {
		return core.User{}, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)

	if err := s.store.CreateUser(ctx, u); err != nil {
		return core.User{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", log.FieldUserID, u.ID)
	return u, nil
}

// Login verifies the password and issues a new session token.
func (s *Service) Login(ctx context.Context, email, password string, now time.Time) (core.Session, core.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return core.Session{}, core.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return core.Session{}, core.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if !u.Active {
		return core.Session{}, core.User{}, ErrUserDisabled
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return core.Session{}, core.User{}, ErrInvalidCredentials
	}

	sess := core.Session{
		Token:     uuid.NewString(),
		UserID:    u.ID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now.UTC(),
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return core.Session{}, core.User{}, fmt.Errorf("create session: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in", log.FieldUserID, u.ID)
	return sess, u, nil
}

// Logout invalidates the session token. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.store.DeleteSession(ctx, token)
}

// Authenticate resolves a bearer token to its user, rejecting expired
// sessions and disabled accounts.
func (s *Service) Authenticate(ctx context.Context, token string, now time.Time) (core.User, error) {
	sess, err := s.store.GetSession(ctx, token)
	if errors.Is(err, storage.ErrNotFound) {
		return core.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return core.User{}, fmt.Errorf("lookup session: %w", err)
	}
	if now.After(sess.ExpiresAt) {
		return core.User{}, ErrSessionExpired
	}

	u, err := s.store.GetUserByID(ctx, sess.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return core.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return core.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if !u.Active {
		return core.User{}, ErrUserDisabled
	}
	return u, nil
}
