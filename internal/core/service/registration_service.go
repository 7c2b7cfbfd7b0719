package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/adminboard/dashboard-api/internal/core/domain"
	"github.com/adminboard/dashboard-api/internal/core/ports"
)

// bcrypt only reads the first 72 bytes of a password. Longer passwords are
// rejected instead of being truncated.
const maxPasswordBytes = 72

// RegistrationService turns untrusted registration payloads into persisted users.
type RegistrationService struct {
	store     *CredentialStore
	hasher    ports.PasswordHasher
	allowRole bool
	log       zerolog.Logger
}

// NewRegistrationService wires the workflow. When allowSelfAssignedRole is
// false, registrations asking for ADMIN are rejected.
func NewRegistrationService(store *CredentialStore, hasher ports.PasswordHasher, allowSelfAssignedRole bool, log zerolog.Logger) *RegistrationService {
	return &RegistrationService{
		store:     store,
		hasher:    hasher,
		allowRole: allowSelfAssignedRole,
		log:       log,
	}
}

// Register validates, pre-checks, hashes and persists a new account.
func (s *RegistrationService) Register(ctx context.Context, in ports.RegisterInput) (*domain.UserView, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.NewValidationError("missing email or password")
	}

	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	if role == domain.RoleAdmin && !s.allowRole {
		return nil, domain.NewValidationError("role not allowed")
	}

	user, err := s.create(ctx, in.Email, in.Password, in.Name, role)
	if err != nil {
		return nil, err
	}

	if role == domain.RoleAdmin {
		s.log.Warn().Str("user_id", user.ID).Msg("admin account self-registered")
	}
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")

	view := user.View()
	return &view, nil
}

// BootstrapAdmin creates an ADMIN account. An existing account with the same
// email is returned untouched, whatever its role.
func (s *RegistrationService) BootstrapAdmin(ctx context.Context, email, password, name string) (*domain.UserView, error) {
	if email == "" || password == "" {
		return nil, domain.NewValidationError("missing email or password")
	}

	user, err := s.create(ctx, email, password, name, domain.RoleAdmin)
	if errors.Is(err, domain.ErrUserExists) {
		existing, findErr := s.store.FindByEmail(ctx, email)
		if findErr != nil {
			return nil, fmt.Errorf("bootstrap admin: %w", findErr)
		}
		s.log.Info().Str("user_id", existing.ID).Msg("bootstrap account already exists")
		view := existing.View()
		return &view, nil
	}
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("admin account bootstrapped")
	view := user.View()
	return &view, nil
}

func (s *RegistrationService) create(ctx context.Context, email, password, name string, role domain.Role) (*domain.User, error) {
	if len(password) > maxPasswordBytes {
		return nil, domain.NewValidationError("password too long")
	}

	// Fast path only. The insert below is the real uniqueness guard.
	_, err := s.store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, email, hash, name, role)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			s.log.Debug().Msg("registration lost insert race")
			return nil, domain.ErrUserExists
		}
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}
	return user, nil
}
