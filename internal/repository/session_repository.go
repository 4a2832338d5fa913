package repository

import (
	"context"
	"fmt"
	"time"

	"doctorcar-service/internal/models"
	"doctorcar-service/internal/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// Session is the server-side record behind an opaque session cookie.
type Session struct {
	UserID    uuid.UUID       `json:"user_id"`
	Role      models.UserRole `json:"role"`
	Email     string          `json:"email"`
	CreatedAt time.Time       `json:"created_at"`
}

type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

// Save stores a session under its token with the configured TTL
func (r *SessionRepository) Save(ctx context.Context, token string, session *Session) error {
	data, err := utils.SerializeModel(session)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	if err := r.client.Set(ctx, sessionKeyPrefix+token, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Get retrieves a session by its token. A missing or expired token returns
// a not found error.
func (r *SessionRepository) Get(ctx context.Context, token string) (*Session, error) {
	data, err := r.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("session not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session Session
	if err := utils.DeserializeModel(data, &session); err != nil {
		return nil, fmt.Errorf("failed to deserialize session: %w", err)
	}

	return &session, nil
}

// Refresh extends a live session's TTL
func (r *SessionRepository) Refresh(ctx context.Context, token string) error {
	ok, err := r.client.Expire(ctx, sessionKeyPrefix+token, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to refresh session: %w", err)
	}
	if !ok {
		return fmt.Errorf("session not found")
	}

	return nil
}

// Delete removes a session (logout)
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
