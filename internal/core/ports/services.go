package ports

import (
	"context"
	"net/http"

	"github.com/adminboard/dashboard-api/internal/core/domain"
)

// RegisterInput is the untrusted registration payload.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// RegistrationService creates new accounts.
type RegistrationService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.UserView, error)
	BootstrapAdmin(ctx context.Context, email, password, name string) (*domain.UserView, error)
}

// UserDirectory serves read access to registered users.
type UserDirectory interface {
	ListUsers(ctx context.Context) ([]domain.UserListing, error)
}

// AccessGate decides whether a request may perform an operation that
// requires the given role.
type AccessGate interface {
	Check(r *http.Request, required domain.Role) (*domain.Assertion, error)
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Session *Session
	User    domain.UserView
}

// AuthService verifies credentials and opens sessions.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}
