package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/adminboard/dashboard-api/internal/api/metrics"
	"github.com/adminboard/dashboard-api/internal/core/domain"
	"github.com/adminboard/dashboard-api/internal/core/ports"
)

const assertionKey = "assertion"

// RequireRole runs the access gate before the handler. Denials are returned
// as errors and rendered by the central HTTP error handler, so a 401 or 403
// never reaches the handler.
func RequireRole(gate ports.AccessGate, role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			a, err := gate.Check(c.Request(), role)
			metrics.AuthorizationDecisionsTotal.WithLabelValues(string(role), outcome(err)).Inc()
			if err != nil {
				return err
			}

			c.Set(assertionKey, a)
			return next(c)
		}
	}
}

// AssertionFrom returns the identity stored by RequireRole, or nil.
func AssertionFrom(c echo.Context) *domain.Assertion {
	a, _ := c.Get(assertionKey).(*domain.Assertion)
	return a
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "allow"
	case errors.Is(err, domain.ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	default:
		return "error"
	}
}
