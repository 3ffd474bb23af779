package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/finapp/storefront/internal/core/domain"
)

const defaultGuestTTL = 30 * 24 * time.Hour

// GuestCartStore persists guest cart snapshots in Redis.
// Key format: guestcart:<session_id>, value: JSON-encoded cart lines.
type GuestCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGuestCartStore creates a GuestCartStore wrapping the given Redis client.
// A ttl of zero or below falls back to defaultGuestTTL.
func NewGuestCartStore(client *redis.Client, ttl time.Duration) *GuestCartStore {
	if ttl <= 0 {
		ttl = defaultGuestTTL
	}
	return &GuestCartStore{client: client, ttl: ttl}
}

// Load returns the stored snapshot for the session, or an empty snapshot
// when none is stored. A corrupt stored value is treated as absent rather
// than failing the session.
func (s *GuestCartStore) Load(ctx context.Context, sessionID string) (domain.CartSnapshot, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err == redis.Nil {
		return domain.CartSnapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("guest cart load: %w", err)
	}

	var snap domain.CartSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return domain.CartSnapshot{}, nil
	}
	return snap, nil
}

// Save writes the snapshot, refreshing the TTL.
func (s *GuestCartStore) Save(ctx context.Context, sessionID string, snapshot domain.CartSnapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("guest cart encode: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("guest cart save: %w", err)
	}
	return nil
}

// Delete removes the stored snapshot for the session.
func (s *GuestCartStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("guest cart delete: %w", err)
	}
	return nil
}

func (s *GuestCartStore) key(sessionID string) string {
	return fmt.Sprintf("guestcart:%s", sessionID)
}
