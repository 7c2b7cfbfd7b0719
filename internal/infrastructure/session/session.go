// Package session implements the session providers that turn inbound
// requests into identity assertions: signed JWTs and server-side sessions
// kept in Redis.
package session

import (
	"net/http"
	"strings"

	"github.com/adminboard/dashboard-api/internal/core/domain"
)

// CookieName is the cookie that carries the session token for browser clients.
const CookieName = "session_token"

// tokenFromRequest extracts the session token. The Authorization header wins
// over the cookie. A header that is present but not a bearer token is
// reported as invalid credentials rather than ignored.
func tokenFromRequest(r *http.Request) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", domain.ErrUnauthenticated
		}
		return strings.TrimSpace(parts[1]), nil
	}

	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", nil
}
