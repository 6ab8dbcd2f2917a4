package accounts

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"chat-relay/internal/models"
	"chat-relay/internal/repositories"
)

// ErrInvalidCredentials covers both unknown accounts and password
// mismatches so login responses cannot be used to probe for emails.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service handles registration and login against the user store.
type Service struct {
	users repositories.UserRepository
}

// NewService constructs an accounts Service.
func NewService(users repositories.UserRepository) *Service {
	return &Service{users: users}
}

// Register hashes the password with bcrypt and stores the account.
func (s *Service) Register(ctx context.Context, username, email, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if _, err := s.users.CreateUser(ctx, username, email, string(hashed)); err != nil {
		return err
	}
	return nil
}

// Login verifies the password against the stored hash and returns the
// account on success.
func (s *Service) Login(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}
