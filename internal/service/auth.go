package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/smarttask/smarttask-go/internal/crypto"
	"github.com/smarttask/smarttask-go/internal/model"
	"github.com/smarttask/smarttask-go/internal/repository"
)

// Demo account created on first run.
const (
	DemoName     = "Demo User"
	DemoEmail    = "demo@example.com"
	DemoPassword = "password"
)

// UserStore is the persistence the AuthService needs.
type UserStore interface {
	Create(ctx context.Context, user *model.UserRecord) error
	GetByEmail(ctx context.Context, email string) (*model.UserRecord, error)
	GetByID(ctx context.Context, id string) (*model.UserRecord, error)
}

// AuthService issues and verifies account identities.
type AuthService struct {
	repo      UserStore
	hasher    *crypto.PasswordHasher
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo UserStore, hasher *crypto.PasswordHasher, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		jwtSecret: secret,
		jwtExpiry: expiry,
	}
}

// Register creates a new account and returns its sanitized view.
//
// The email lookup only short-circuits the common case. Two concurrent
// registrations can both pass it; the unique email index then rejects the
// second write, which is reported as ErrDuplicateEmail too.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return model.User{}, ErrEmailRequired
	}
	if req.Password == "" {
		return model.User{}, ErrPasswordRequired
	}

	_, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return model.User{}, ErrDuplicateEmail
	case !errors.Is(err, repository.ErrUserNotFound):
		return model.User{}, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.User{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	user := &model.UserRecord{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.User{}, ErrDuplicateEmail
		}
		return model.User{}, err
	}

	slog.Info("user registered", "user_id", user.ID)
	return user.View(), nil
}

// Login verifies the credentials and returns the account's sanitized view.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.User, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}

	match, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return model.User{}, fmt.Errorf("verify password for %s: %w", user.ID, err)
	}
	if !match {
		return model.User{}, ErrInvalidCredentials
	}

	return user.View(), nil
}

// GetUser retrieves a user by ID and returns safe user data.
func (s *AuthService) GetUser(ctx context.Context, id string) (model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	return user.View(), nil
}

// SeedDefaultAccount makes sure the demo account exists.
func (s *AuthService) SeedDefaultAccount(ctx context.Context) error {
	_, err := s.repo.GetByEmail(ctx, DemoEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	_, err = s.Register(ctx, model.RegisterRequest{
		Name:     DemoName,
		Email:    DemoEmail,
		Password: DemoPassword,
	})
	if err != nil && !errors.Is(err, ErrDuplicateEmail) {
		return err
	}
	return nil
}

// NewSession wraps a user view in a signed session token.
func (s *AuthService) NewSession(user model.User) (model.AuthResponse, error) {
	token, err := crypto.GenerateToken(user.ID, user.Email, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.AuthResponse{}, err
	}
	return model.AuthResponse{Token: token, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
