package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmuseum/catalog/common/models"
	rediscommon "github.com/cmuseum/catalog/common/redis"
)

const sessionKeyPrefix = "session:"

// SessionRepository stores sessions in Redis with a TTL
type SessionRepository struct {
	redis *rediscommon.Client
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(redis *rediscommon.Client) *SessionRepository {
	return &SessionRepository{redis: redis}
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

// Save stores a session until its expiry
func (r *SessionRepository) Save(ctx context.Context, s *models.Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("%w: session already expired", models.ErrValidation)
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.redis.SetWithExpiry(ctx, sessionKey(s.Token), string(payload), ttl); err != nil {
		return fmt.Errorf("failed to save session: %w: %w", models.ErrExternalService, err)
	}
	return nil
}

// Get loads a session; an unknown or expired token is ErrUnauthenticated
func (r *SessionRepository) Get(ctx context.Context, token string) (*models.Session, error) {
	raw, err := r.redis.Get(ctx, sessionKey(token))
	if errors.Is(err, rediscommon.ErrKeyNotFound) {
		return nil, models.ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w: %w", models.ErrExternalService, err)
	}

	var s models.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

// Delete removes a session
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	if err := r.redis.Delete(ctx, sessionKey(token)); err != nil {
		return fmt.Errorf("failed to delete session: %w: %w", models.ErrExternalService, err)
	}
	return nil
}
