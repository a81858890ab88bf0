package session

import (
	"context"
	"time"

	"github.com/mkowalik/carscout/internal/assist"
)

// Store keeps per-session conversation state. Backends must tolerate unknown
// ids (return found=false, no error): the assistant transparently restarts
// such sessions. Entries expire after their TTL; there is no explicit delete.
//
// Concurrent turns on the same session id are last-writer-wins; the store
// serializes individual operations but not a whole read-modify-write turn.
type Store interface {
	GetSession(ctx context.Context, id string) (assist.State, bool, error)
	SaveSession(ctx context.Context, id string, st assist.State, ttl time.Duration) error
}

type StoreType string

const (
	InMemoryStore StoreType = "inmemory"
	RedisStore    StoreType = "redis"
)
