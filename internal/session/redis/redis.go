package redis_session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mkowalik/carscout/internal/assist"
	"github.com/mkowalik/carscout/internal/session"
)

// Store is the redis session backend for multi-instance deployments.
// Conversation states are stored as JSON values with a key TTL.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) session.Store {
	return &Store{client: client}
}

func sessionKey(id string) string {
	return fmt.Sprintf("assist:session:%s", id)
}

func (s *Store) GetSession(ctx context.Context, id string) (assist.State, bool, error) {
	val, err := s.client.Get(ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return assist.State{}, false, nil
	}
	if err != nil {
		return assist.State{}, false, err
	}
	var st assist.State
	if err := json.Unmarshal([]byte(val), &st); err != nil {
		// Corrupt payloads count as unknown sessions; the assistant restarts.
		return assist.State{}, false, nil
	}
	return st, true, nil
}

func (s *Store) SaveSession(ctx context.Context, id string, st assist.State, ttl time.Duration) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(id), data, ttl).Err()
}
