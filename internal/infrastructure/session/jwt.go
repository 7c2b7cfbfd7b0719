package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adminboard/dashboard-api/internal/core/domain"
	"github.com/adminboard/dashboard-api/internal/core/ports"
)

// ErrMissingSecret is returned when a JWT provider is built without a key.
var ErrMissingSecret = errors.New("session: jwt secret is required")

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTProvider issues and verifies HS256-signed session tokens. It is
// stateless: a token stays valid until it expires.
type JWTProvider struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

var (
	_ ports.SessionProvider = (*JWTProvider)(nil)
	_ ports.SessionIssuer   = (*JWTProvider)(nil)
)

func NewJWTProvider(secret string, ttl time.Duration) (*JWTProvider, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &JWTProvider{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (p *JWTProvider) Issue(_ context.Context, user *domain.User) (*ports.Session, error) {
	now := p.now()
	expiresAt := now.Add(p.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &ports.Session{Token: signed, ExpiresAt: expiresAt}, nil
}

func (p *JWTProvider) Resolve(r *http.Request) (*domain.Assertion, error) {
	raw, err := tokenFromRequest(r)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var c claims
	tkn, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !tkn.Valid {
		return nil, domain.ErrUnauthenticated
	}

	role := domain.Role(c.Role)
	if c.Subject == "" || !role.Valid() {
		return nil, domain.ErrUnauthenticated
	}
	return &domain.Assertion{UserID: c.Subject, Role: role}, nil
}
