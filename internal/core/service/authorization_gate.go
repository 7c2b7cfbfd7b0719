package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/adminboard/dashboard-api/internal/core/domain"
	"github.com/adminboard/dashboard-api/internal/core/ports"
)

// AuthorizationGate decides per request whether a protected operation may
// proceed. It keeps no state between calls.
type AuthorizationGate struct {
	sessions ports.SessionProvider
}

func NewAuthorizationGate(sessions ports.SessionProvider) *AuthorizationGate {
	return &AuthorizationGate{sessions: sessions}
}

// Resolve asks the session provider for the request's assertion. A nil
// assertion with a nil error means the request is unauthenticated.
func (g *AuthorizationGate) Resolve(r *http.Request) (*domain.Assertion, error) {
	a, err := g.sessions.Resolve(r)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	return a, nil
}

// Authorize returns nil to allow, domain.ErrUnauthenticated when there is no
// valid assertion and domain.ErrForbidden when the role does not match
// exactly. Roles are not hierarchical.
func Authorize(a *domain.Assertion, required domain.Role) error {
	if a == nil || a.UserID == "" || !a.Role.Valid() {
		return domain.ErrUnauthenticated
	}
	if a.Role != required {
		return domain.ErrForbidden
	}
	return nil
}

// Check resolves the request and authorizes it against required.
func (g *AuthorizationGate) Check(r *http.Request, required domain.Role) (*domain.Assertion, error) {
	a, err := g.Resolve(r)
	if err != nil {
		return nil, err
	}
	if err := Authorize(a, required); err != nil {
		return a, err
	}
	return a, nil
}
