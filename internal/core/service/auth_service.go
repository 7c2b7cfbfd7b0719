package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/adminboard/dashboard-api/internal/core/domain"
	"github.com/adminboard/dashboard-api/internal/core/ports"
)

// dummyHash is compared against when the email is unknown so that a failed
// login costs the same whether or not the account exists. Cost 12.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// AuthService verifies credentials and hands out sessions.
type AuthService struct {
	store    *CredentialStore
	hasher   ports.PasswordHasher
	sessions ports.SessionIssuer
	log      zerolog.Logger
}

func NewAuthService(store *CredentialStore, hasher ports.PasswordHasher, sessions ports.SessionIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{store: store, hasher: hasher, sessions: sessions, log: log}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.NewValidationError("missing email or password")
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("login: %w", err)
	}

	hash := dummyHash
	if user != nil {
		hash = user.PasswordHash
	}
	compareErr := s.hasher.Compare(ctx, hash, password)
	if user == nil || compareErr != nil {
		return nil, domain.ErrInvalidCredentials
	}

	session, err := s.sessions.Issue(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("login: issue session: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("session issued")
	return &ports.LoginResult{Session: session, User: user.View()}, nil
}
