package exchange

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Store records per-notification progress across the submit->delete window
// so a crash or a failed delete can never double-submit a reply or
// double-delete a notification.
type Store interface {
	// MarkReplied records that the protocol reply for the notification was
	// submitted successfully.
	MarkReplied(ctx context.Context, id string) error
	IsReplied(ctx context.Context, id string) (bool, error)

	// MarkRetired claims the single delete slot for the notification.
	// It returns true only for the first caller.
	MarkRetired(ctx context.Context, id string) (bool, error)

	// ClearRetired releases the delete slot after a failed delete so the
	// next cycle can retry it.
	ClearRetired(ctx context.Context, id string) error
}

const (
	repliedKeyPrefix = "exchange:replied:"
	retiredKeyPrefix = "exchange:retired:"
)

// RedisStore is the durable Store implementation. Entries are TTL-bounded;
// a retired notification is unobservable at the agent long before the TTL
// expires.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) MarkReplied(ctx context.Context, id string) error {
	if err := s.client.Set(ctx, repliedKeyPrefix+id, "1", s.ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to mark notification replied")
	}
	return nil
}

func (s *RedisStore) IsReplied(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, repliedKeyPrefix+id).Result()
	if err != nil {
		return false, errors.Wrap(err, "failed to check replied marker")
	}
	return n > 0, nil
}

func (s *RedisStore) MarkRetired(ctx context.Context, id string) (bool, error) {
	ok, err := s.client.SetNX(ctx, retiredKeyPrefix+id, "1", s.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, "failed to mark notification retired")
	}
	return ok, nil
}

// Ping reports whether the backing Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "failed to ping redis")
	}
	return nil
}

// Close releases the backing Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) ClearRetired(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, retiredKeyPrefix+id).Err(); err != nil {
		return errors.Wrap(err, "failed to clear retired marker")
	}
	return nil
}

// MemoryStore is the in-process Store used in tests and in setups without
// Redis. Progress then survives only as long as the process.
type MemoryStore struct {
	mu      sync.Mutex
	replied map[string]bool
	retired map[string]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		replied: make(map[string]bool),
		retired: make(map[string]bool),
	}
}

func (s *MemoryStore) MarkReplied(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replied[id] = true
	return nil
}

func (s *MemoryStore) IsReplied(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replied[id], nil
}

func (s *MemoryStore) MarkRetired(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.retired[id] {
		return false, nil
	}
	s.retired[id] = true
	return true, nil
}

func (s *MemoryStore) ClearRetired(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.retired, id)
	return nil
}
