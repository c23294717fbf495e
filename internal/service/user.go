package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/songbook/internal/apperror"
	"github.com/sakif/songbook/internal/auth"
	"github.com/sakif/songbook/internal/model"
	"github.com/sakif/songbook/internal/repository"
	"github.com/sakif/songbook/internal/view"
)

const MinPasswordLength = 8

// errBadCredentials covers both an unknown email and a wrong password.
var errBadCredentials = apperror.Unauthorized("invalid email or password")

// UserService registers accounts, logs users in and issues their tokens.
type UserService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewUserService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult is what register and login hand back to the handler.
type AuthResult struct {
	User      view.UserView `json:"user"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

// RegisterUser creates an account and logs it in. An email already taken
// (in any casing) fails with apperror.ErrConflict. An empty name falls back
// to the local part of the email.
func (s *UserService) RegisterUser(ctx context.Context, email, password, name string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if err := validate.Var(email, "required,email,max=254"); err != nil {
		return nil, apperror.ValidationFailed("email", "a valid email address is required")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if len(password) > auth.MaxPasswordBytes {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be %d bytes or fewer", auth.MaxPasswordBytes))
	}
	name, err := cleanText("name", name, MaxNameLength, false)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	_, err = s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperror.Conflict("user with email", email)
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, fmt.Errorf("checking email: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user registered", slog.String("userID", user.ID))

	return s.issue(user)
}

// LoginUser checks the credentials and issues a fresh token.
func (s *UserService) LoginUser(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, errBadCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, errBadCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Warn("failed login", slog.String("userID", user.ID))
			return nil, errBadCredentials
		}
		return nil, fmt.Errorf("verifying password: %w", err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return s.issue(user)
}

func (s *UserService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generating token for user %s: %w", user.ID, err)
	}
	return &AuthResult{
		User:      view.UserFromModel(user),
		Token:     token,
		ExpiresAt: time.Now().Add(s.tokens.TTL()),
	}, nil
}

func (s *UserService) GetCurrentUser(ctx context.Context, userID string) (*view.UserView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching user %s: %w", userID, err)
	}

	v := view.UserFromModel(user)
	return &v, nil
}

// ValidateToken returns the user ID a token was issued for.
func (s *UserService) ValidateToken(token string) (string, error) {
	userID, err := s.tokens.Validate(token)
	if err != nil {
		return "", apperror.Unauthorized(err.Error())
	}
	return userID, nil
}

// TokenTTL is the lifetime of tokens this service issues.
func (s *UserService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}
