package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atinyakov/taskkeeper/internal/auth"
	"github.com/atinyakov/taskkeeper/internal/models"
)

// Session is the result of a successful registration or login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      models.User
}

// NewUser is the input for registration and directory creation.
type NewUser struct {
	Email       string
	DisplayName string
	Password    string
}

// AuthService registers users and exchanges credentials for session tokens.
type AuthService struct {
	users  UserRepository
	tokens TokenIssuer
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a user and issues a token for it.
// A duplicate email yields models.ErrConflict and leaves the existing user untouched.
func (s *AuthService) Register(ctx context.Context, in NewUser) (*Session, error) {
	u, err := createUser(ctx, s.users, in)
	if err != nil {
		return nil, err
	}
	return s.session(*u)
}

// Login verifies email and password and issues a token. Unknown emails and
// wrong passwords both yield models.ErrUnauthenticated.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", models.ErrValidation)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		auth.BurnPasswordCheck(password)
		return nil, fmt.Errorf("%w: invalid credentials", models.ErrUnauthenticated)
	}
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(password, u.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", models.ErrUnauthenticated)
	}
	return s.session(*u)
}

func (s *AuthService) session(u models.User) (*Session, error) {
	token, expires, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expires, User: u}, nil
}

// createUser validates in, hashes the password and stores the user.
func createUser(ctx context.Context, users UserRepository, in NewUser) (*models.User, error) {
	email := strings.TrimSpace(in.Email)
	name := strings.TrimSpace(in.DisplayName)
	if email == "" || name == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email, displayName and password are required", models.ErrValidation)
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	return users.Create(ctx, models.User{Email: email, DisplayName: name, PasswordHash: hash})
}

func validateEmail(email string) error {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t\r\n") {
		return fmt.Errorf("%w: malformed email", models.ErrValidation)
	}
	return nil
}
