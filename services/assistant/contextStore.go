// File: services/assistant/contextStore.go
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"waly/models"
	"waly/utils"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "waly:session:"

// RedisSessionStore keeps session snapshots in Redis with a sliding TTL.
// With a non-nil sealer, snapshots are encrypted before they are written.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
	sealer *utils.Sealer
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration, sealer *utils.Sealer) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl, sealer: sealer}
}

func (s *RedisSessionStore) Load(ctx context.Context, sessionID string) (*models.SessionSnapshot, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if s.sealer != nil {
		if data, err = s.sealer.Open(data); err != nil {
			return nil, fmt.Errorf("session %s: %w", sessionID, err)
		}
	}
	var snap models.SessionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, snap models.SessionSnapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if s.sealer != nil {
		if b, err = s.sealer.Seal(b); err != nil {
			return err
		}
	}
	return s.client.Set(ctx, sessionKeyPrefix+snap.ID, b, s.ttl).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKeyPrefix+sessionID).Err()
}
