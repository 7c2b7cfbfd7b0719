package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adminboard/dashboard-api/internal/core/domain"
	"github.com/adminboard/dashboard-api/internal/core/ports"
)

// CredentialStore owns user records and their invariants. Uniqueness is
// delegated to the repository's atomic insert; nothing here reads before
// writing.
type CredentialStore struct {
	repo ports.UserRepository
	now  func() time.Time
}

func NewCredentialStore(repo ports.UserRepository) *CredentialStore {
	return &CredentialStore{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// CreateUser inserts a new record. It fails with domain.ErrUserExists when the
// email is taken at the moment of insertion.
func (s *CredentialStore) CreateUser(ctx context.Context, email, passwordHash, name string, role domain.Role) (*domain.User, error) {
	if email == "" || passwordHash == "" {
		return nil, domain.NewValidationError("missing email or password hash")
	}
	if !role.Valid() {
		return nil, domain.NewValidationError("invalid role")
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
		CreatedAt:    s.now(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// FindByEmail is a point lookup. It returns domain.ErrUserNotFound when absent.
func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// ListUsers returns all users newest first, without password hashes.
func (s *CredentialStore) ListUsers(ctx context.Context) ([]domain.UserListing, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]domain.UserListing, 0, len(users))
	for _, u := range users {
		out = append(out, u.Listing())
	}
	return out, nil
}
