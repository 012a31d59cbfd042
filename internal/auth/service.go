package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidRole        = errors.New("invalid role")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrMissingFields      = errors.New("username and email are required")
)

type Service struct {
	repo   Repository
	tokens *TokenIssuer
	logger zerolog.Logger
}

func NewService(repo Repository, tokens *TokenIssuer, logger zerolog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, logger: logger}
}

// Register creates a user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, email, password string, role Role) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" {
		return nil, ErrMissingFields
	}
	if len(password) < 8 {
		return nil, ErrPasswordTooShort
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.InsertUser(ctx, username, email, string(hash), role)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID.String()).
		Str("role", string(user.Role)).
		Msg("user registered")

	return user, nil
}

// Login verifies credentials and issues a bearer token with the role claim.
func (s *Service) Login(ctx context.Context, username, password string) (string, *User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", nil, ErrAccountDisabled
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return token, user, nil
}

// VerifyToken validates a bearer token and returns its claims.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	return s.tokens.Verify(tokenString)
}

// Deactivate disables a user account; login is refused afterwards.
func (s *Service) Deactivate(ctx context.Context, user *User) error {
	return s.repo.SetActive(ctx, user.ID, false)
}
