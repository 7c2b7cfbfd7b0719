package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/adminboard/dashboard-api/internal/core/domain"
	"github.com/adminboard/dashboard-api/internal/core/ports"
)

const defaultPrefix = "session"

type sessionRecord struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// RedisProvider keeps sessions server-side. The token handed to the client is
// an opaque id; the identity lives under prefix:id with a TTL.
type RedisProvider struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var (
	_ ports.SessionProvider = (*RedisProvider)(nil)
	_ ports.SessionIssuer   = (*RedisProvider)(nil)
)

func NewRedisProvider(client *redis.Client, prefix string, ttl time.Duration) *RedisProvider {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &RedisProvider{client: client, prefix: prefix, ttl: ttl}
}

func (p *RedisProvider) sessionKey(id string) string {
	return fmt.Sprintf("%s:%s", p.prefix, id)
}

func (p *RedisProvider) Issue(ctx context.Context, user *domain.User) (*ports.Session, error) {
	now := time.Now().UTC()
	data, err := json.Marshal(sessionRecord{UserID: user.ID, Role: string(user.Role), CreatedAt: now})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	id := uuid.NewString()
	if err := p.client.Set(ctx, p.sessionKey(id), data, p.ttl).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return &ports.Session{Token: id, ExpiresAt: now.Add(p.ttl)}, nil
}

// Resolve looks the token up in Redis. Unknown or expired ids are invalid
// credentials; a Redis failure is returned as-is so callers treat it as an
// internal error.
func (p *RedisProvider) Resolve(r *http.Request) (*domain.Assertion, error) {
	raw, err := tokenFromRequest(r)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	if _, err := uuid.Parse(raw); err != nil {
		return nil, domain.ErrUnauthenticated
	}

	data, err := p.client.Get(r.Context(), p.sessionKey(raw)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	role := domain.Role(rec.Role)
	if rec.UserID == "" || !role.Valid() {
		return nil, domain.ErrUnauthenticated
	}
	return &domain.Assertion{UserID: rec.UserID, Role: role}, nil
}
