package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adminboard/dashboard-api/internal/core/domain"
)

// uniqueViolation is the SQLSTATE raised when a UNIQUE constraint rejects a row.
const uniqueViolation = "23505"

const (
	createUsersTableSQL = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	email         TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	name          TEXT NOT NULL DEFAULT '',
	role          TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT users_email_key UNIQUE (email)
)`
	createUsersListingIndexSQL = `CREATE INDEX IF NOT EXISTS users_created_at_idx ON users (created_at DESC, id DESC)`

	insertUserSQL = `
INSERT INTO users (id, email, password_hash, name, role, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	selectUserByEmailSQL = `
SELECT id::text, email, password_hash, name, role, created_at
FROM users WHERE email = $1`

	listUsersSQL = `
SELECT id::text, email, name, role, created_at
FROM users ORDER BY created_at DESC, id DESC`
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Migrate creates the users table and its indexes when missing.
func (r *UserRepository) Migrate(ctx context.Context) error {
	for _, stmt := range []string{createUsersTableSQL, createUsersListingIndexSQL} {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate users: %w", err)
		}
	}
	return nil
}

// Create runs a single INSERT. The UNIQUE constraint on email decides the
// winner of concurrent registrations.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	created := *user
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	// TIMESTAMPTZ keeps microseconds.
	created.CreatedAt = created.CreatedAt.UTC().Truncate(time.Microsecond)

	_, err := r.pool.Exec(ctx, insertUserSQL,
		created.ID, created.Email, created.PasswordHash, created.Name, string(created.Role), created.CreatedAt)
	if err != nil {
		return nil, mapInsertError(err)
	}
	return &created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		u    domain.User
		role string
	)
	err := r.pool.QueryRow(ctx, selectUserByEmailSQL, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.Role = domain.Role(role)
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

// List never selects password_hash.
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, listUsersSQL)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var (
			u    domain.User
			role string
		)
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.Role = domain.Role(role)
		u.CreatedAt = u.CreatedAt.UTC()
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func mapInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrUserExists
	}
	return fmt.Errorf("insert user: %w", err)
}
