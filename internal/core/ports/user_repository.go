package ports

import (
	"context"

	"github.com/adminboard/dashboard-api/internal/core/domain"
)

// UserRepository is the storage boundary of the credential store.
//
// Create must be a single atomic insert guarded by a uniqueness constraint on
// email and must report a violation as domain.ErrUserExists. The adapter
// assigns ID and CreatedAt when they are empty.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByEmail returns domain.ErrUserNotFound when no record matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns every user ordered by created_at descending, then id
	// descending. PasswordHash is left empty.
	List(ctx context.Context) ([]*domain.User, error)
	Ping(ctx context.Context) error
}
