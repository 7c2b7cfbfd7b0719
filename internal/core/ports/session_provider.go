package ports

import (
	"context"
	"net/http"
	"time"

	"github.com/adminboard/dashboard-api/internal/core/domain"
)

// SessionProvider resolves the identity behind an inbound request.
// It returns (nil, nil) when the request carries no session credentials and
// domain.ErrUnauthenticated when the credentials are present but invalid.
type SessionProvider interface {
	Resolve(r *http.Request) (*domain.Assertion, error)
}

// Session is an issued credential handed back to the client.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// SessionIssuer creates sessions for authenticated users.
type SessionIssuer interface {
	Issue(ctx context.Context, user *domain.User) (*Session, error)
}
