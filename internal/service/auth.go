// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the store
//
// Services accept primitives and domain types, never *http.Request, and
// return domain errors (apperror), never status codes. They depend on the
// repository INTERFACES, so tests inject in-memory mocks and the HTTP layer
// stays out of every business-rule test.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/sakif/devconnect/internal/apperror"
	"github.com/sakif/devconnect/internal/auth"
	"github.com/sakif/devconnect/internal/model"
	"github.com/sakif/devconnect/internal/repository"
)

// Validation bounds for registration input.
const (
	MinNameLength     = 2
	MaxNameLength     = 30
	MinPasswordLength = 6
	MaxPasswordLength = 30
)

// AuthService handles registration, login, and current-user lookup.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all dependencies injected.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// LoginResult bundles the authenticated user with the issued token so the
// handler can respond in one step.
type LoginResult struct {
	User  *model.User
	Token string
}

// Register creates a new account.
//
// The avatar is derived deterministically from the email (Gravatar), and
// the password is bcrypt-hashed before it goes anywhere near the store.
// The plaintext is never persisted and never logged; note that no log call
// in this method receives the password.
//
// A duplicate email fails with a conflict and leaves the existing record
// untouched. We check first for the clean error message, and the store's
// UNIQUE constraint covers the race where two registrations slip past the
// check simultaneously.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if len(name) < MinNameLength || len(name) > MaxNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("name must be between %d and %d characters", MinNameLength, MaxNameLength))
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperror.ValidationFailed("email", "email is invalid")
	}
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be between %d and %d characters", MinPasswordLength, MaxPasswordLength))
	}

	// Duplicate check. Anything other than "not found" here is a real
	// store failure and propagates as such.
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, apperror.Conflict("email", "email already exists")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking email: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		AvatarURL:    auth.GravatarURL(email),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to create user",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Login verifies the credentials and issues a signed token.
//
// Failure modes are distinct on purpose, matching the API contract: an
// unknown email is "not found", a wrong password is "incorrect password".
// The issued token embeds the identity triple {id, name, avatar}; protected
// routes trust that payload for the token's lifetime instead of re-reading
// the user record.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("email", "user not found")
		}
		return nil, fmt.Errorf("service/auth: fetching user by email: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("password", "incorrect password")
	}

	token, err := s.tokens.Issue(auth.Identity{
		UserID:    user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	})
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &LoginResult{User: user, Token: token}, nil
}

// CurrentUser returns the full user record for the given id.
//
// GET /users/current responds with the email too, which the token doesn't
// carry, so this is the one protected read that goes back to the store
// instead of trusting the token payload.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return user, nil
}
