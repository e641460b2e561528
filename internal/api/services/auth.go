package services

import (
	"context"
	"errors"
	"fmt"

	"contactdeck/internal/models"
	"contactdeck/internal/repositories"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password, so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateEmail signals a unique-constraint conflict on email.
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrNotFound signals a lookup miss.
	ErrNotFound = errors.New("not found")
)

// AuthService handles registration and credential checks.
type AuthService struct {
	users repositories.UserRepository
}

func NewAuthService(users repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register hashes the password and creates the user. The returned record
// carries the hash internally but never serializes it.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return user, nil
}

// Login verifies the email/password pair. A missing user and a hash
// mismatch collapse into the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetByID fetches a user for the profile view.
func (s *AuthService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetByEmail looks a user up for the OAuth callback flow.
func (s *AuthService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// CreateFederated creates a user authenticated by an external identity
// provider. The empty password can never pass a bcrypt comparison, so such
// accounts cannot log in with credentials.
func (s *AuthService) CreateFederated(ctx context.Context, name, email string) (*models.User, error) {
	user := &models.User{
		Name:  name,
		Email: email,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return user, nil
}
