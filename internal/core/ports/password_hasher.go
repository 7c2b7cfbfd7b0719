package ports

import "context"

// PasswordHasher produces and verifies one-way password hashes.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Compare(ctx context.Context, hash, password string) error
}
