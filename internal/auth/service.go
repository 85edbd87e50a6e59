package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abenov/filestash/internal/config"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const maxPasswordLength = 72 // bcrypt limit

// userStore abstracts the persistence layer.
type userStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (User, error)
	FindUserByEmail(ctx context.Context, email string) (User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (User, error)
}

// sessionStore abstracts the token cache.
type sessionStore interface {
	Put(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	Get(ctx context.Context, token string) (uuid.UUID, error)
	Del(ctx context.Context, token string) error
}

// Service encapsulates registration and opaque-token sessions.
type Service struct {
	store    userStore
	sessions sessionStore
	cfg      config.AuthConfig
}

// NewService creates a Service with dependencies.
func NewService(store userStore, sessions sessionStore, cfg config.AuthConfig) *Service {
	return &Service{store: store, sessions: sessions, cfg: cfg}
}

// Register creates a new user with a hashed password.
func (s *Service) Register(ctx context.Context, email, password string) (User, error) {
	if email == "" {
		return User{}, ErrMissingEmail
	}
	if password == "" {
		return User{}, ErrMissingPassword
	}
	if len(password) > maxPasswordLength {
		return User{}, fmt.Errorf("password exceeds maximum length of %d characters", maxPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, email, string(hash))
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return User{}, ErrEmailAlreadyExists
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Connect verifies credentials and issues a fresh opaque token.
func (s *Service) Connect(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrUnauthorized
	}

	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrUnauthorized
	}

	token := uuid.NewString()
	if err := s.sessions.Put(ctx, token, user.ID, s.cfg.SessionTTL); err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	return token, nil
}

// Disconnect invalidates the token. The token must currently resolve.
func (s *Service) Disconnect(ctx context.Context, token string) error {
	if _, err := s.sessions.Get(ctx, token); err != nil {
		return err
	}
	return s.sessions.Del(ctx, token)
}

// Resolve maps an opaque token to the user identity it was issued for.
func (s *Service) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, ErrUnauthorized
	}
	return s.sessions.Get(ctx, token)
}

// CurrentUser returns the account behind the token.
func (s *Service) CurrentUser(ctx context.Context, token string) (User, error) {
	userID, err := s.Resolve(ctx, token)
	if err != nil {
		return User{}, err
	}

	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, ErrUnauthorized
		}
		return User{}, err
	}
	return user, nil
}
