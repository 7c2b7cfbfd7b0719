package sqlstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/adminboard/dashboard-api/internal/core/domain"
	"github.com/adminboard/dashboard-api/internal/core/ports"
	"github.com/adminboard/dashboard-api/internal/core/service"
	"github.com/adminboard/dashboard-api/internal/infrastructure/security"
)

// setupTestRepo prepares an in-memory SQLite store for testing.
func setupTestRepo(t *testing.T) *UserRepository {
	t.Helper()

	db, err := Open(":memory:")
	require.NoError(t, err, "failed to initialize test database")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewUserRepository(db)
}

func newTestUser(email string, createdAt time.Time) *domain.User {
	return &domain.User{
		Email:        email,
		PasswordHash: "$2a$04$hash-for-" + email,
		Name:         "Test",
		Role:         domain.RoleUser,
		CreatedAt:    createdAt,
	}
}

func TestUserRepository_Create(t *testing.T) {
	t.Run("assigns id and keeps fields", func(t *testing.T) {
		repo := setupTestRepo(t)
		at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

		created, err := repo.Create(context.Background(), newTestUser("alice@example.com", at))

		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "alice@example.com", created.Email)
		assert.Equal(t, domain.RoleUser, created.Role)
		assert.True(t, created.CreatedAt.Equal(at))
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		repo := setupTestRepo(t)

		_, err := repo.Create(context.Background(), newTestUser("dup@example.com", time.Now()))
		require.NoError(t, err)

		_, err = repo.Create(context.Background(), newTestUser("dup@example.com", time.Now()))
		assert.Equal(t, domain.ErrUserExists, err)
	})

	t.Run("email comparison is case-sensitive", func(t *testing.T) {
		repo := setupTestRepo(t)

		_, err := repo.Create(context.Background(), newTestUser("case@example.com", time.Now()))
		require.NoError(t, err)
		_, err = repo.Create(context.Background(), newTestUser("Case@example.com", time.Now()))
		assert.NoError(t, err)
	})
}

func TestUserRepository_FindByEmail(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := repo.Create(context.Background(), newTestUser("bob@example.com", time.Now()))
	require.NoError(t, err)

	found, err := repo.FindByEmail(context.Background(), "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", found.Email)
	assert.NotEmpty(t, found.PasswordHash)

	_, err = repo.FindByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_List(t *testing.T) {
	repo := setupTestRepo(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, email := range []string{"first@example.com", "second@example.com", "third@example.com"} {
		_, err := repo.Create(context.Background(), newTestUser(email, base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 3)

	assert.Equal(t, "third@example.com", users[0].Email)
	assert.Equal(t, "second@example.com", users[1].Email)
	assert.Equal(t, "first@example.com", users[2].Email)
	for _, u := range users {
		assert.Empty(t, u.PasswordHash, "listing must not carry the password hash")
	}
}

func TestUserRepository_ListEmpty(t *testing.T) {
	repo := setupTestRepo(t)

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestUserRepository_Ping(t *testing.T) {
	repo := setupTestRepo(t)
	assert.NoError(t, repo.Ping(context.Background()))
}

// TestRegistration_ConcurrentSameEmail drives the full registration workflow
// against a real store: the pre-check can pass for every caller, so the unique
// index alone must pick the single winner.
func TestRegistration_ConcurrentSameEmail(t *testing.T) {
	repo := setupTestRepo(t)
	svc := service.NewRegistrationService(
		service.NewCredentialStore(repo),
		security.NewBcryptHasher(bcrypt.MinCost),
		true,
		zerolog.Nop(),
	)

	const attempts = 8
	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.Register(context.Background(), ports.RegisterInput{
				Email:    "race@example.com",
				Password: "pw",
			})
		}(i)
	}
	close(start)
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrUserExists):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, attempts-1, conflicts)

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestRegistration_AliceScenario(t *testing.T) {
	repo := setupTestRepo(t)
	svc := service.NewRegistrationService(
		service.NewCredentialStore(repo),
		security.NewBcryptHasher(bcrypt.MinCost),
		true,
		zerolog.Nop(),
	)

	view, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "alice@example.com", Password: "pw1", Name: "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, view.Role)

	_, err = svc.Register(context.Background(), ports.RegisterInput{
		Email: "alice@example.com", Password: "pw2",
	})
	require.Error(t, err)
	assert.Equal(t, "user already exists", err.Error())

	stored, err := repo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw1")))
}
