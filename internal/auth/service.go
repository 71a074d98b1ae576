package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=auth
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type Service struct {
	repo   Repository
	tokens *TokenManager
}

func NewService(repo Repository, tokens *TokenManager) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Register creates an account and signs the new user in.
func (s *Service) Register(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)

	if err := checkEmail(email); err != nil {
		return nil, err
	}

	if err := checkPassword(password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{Email: email, PasswordHash: hash}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return s.session(u)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, err
	}

	if !comparePassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return s.session(u)
}

// ChangePassword re-authenticates the user with the current password before
// storing the new one.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if !comparePassword(u.PasswordHash, current) {
		return ErrInvalidCredentials
	}

	if err := checkPassword(next); err != nil {
		return err
	}

	hash, err := hashPassword(next)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, userID, hash)
}

// Authenticate resolves a bearer token to the user id it was issued for.
func (s *Service) Authenticate(token string) (uuid.UUID, error) {
	return s.tokens.Verify(token)
}

func (s *Service) session(u *User) (*Session, error) {
	token, expiresAt, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	return &Session{User: u, Token: token, ExpiresAt: expiresAt}, nil
}
