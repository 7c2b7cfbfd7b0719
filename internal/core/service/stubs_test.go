package service

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/adminboard/dashboard-api/internal/core/domain"
	"github.com/adminboard/dashboard-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory repository with an atomic check-and-insert, like a unique index.
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User
	seq     int

	// blindLookups makes FindByEmail miss every time, so callers reach
	// Create even when the email exists.
	blindLookups bool
	findErr      error
	createErr    error
	listErr      error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, exists := r.byEmail[u.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.seq++
	clone := *u
	clone.ID = strconv.Itoa(r.seq)
	r.byEmail[u.Email] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byEmail[email]
	if !ok || r.blindLookups {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*domain.User, 0, len(r.byEmail))
	for _, u := range r.byEmail {
		clone := *u
		clone.PasswordHash = ""
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *stubUserRepo) Ping(context.Context) error { return nil }

func (r *stubUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byEmail)
}

// ---------------------------------------------------------------------------
// Hasher using bcrypt at minimum cost to keep tests fast.
// ---------------------------------------------------------------------------

type stubHasher struct {
	err error
}

func (h *stubHasher) Hash(_ context.Context, password string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(b), err
}

func (h *stubHasher) Compare(_ context.Context, hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// ---------------------------------------------------------------------------
// Session stubs
// ---------------------------------------------------------------------------

type stubSessions struct {
	assertion *domain.Assertion
	err       error
	issued    []string
	issueErr  error
}

func (s *stubSessions) Resolve(*http.Request) (*domain.Assertion, error) {
	return s.assertion, s.err
}

func (s *stubSessions) Issue(_ context.Context, u *domain.User) (*ports.Session, error) {
	if s.issueErr != nil {
		return nil, s.issueErr
	}
	s.issued = append(s.issued, u.ID)
	return &ports.Session{Token: "token-" + u.ID}, nil
}
