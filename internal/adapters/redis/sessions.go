package redisad

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Moowses/stay-engine/internal/adapters/observability"
)

// Store keeps calendar selection session snapshots in redis as JSON blobs
// with a TTL. Each session has exactly one writer (the HTTP request currently
// mutating it), so plain SET/GET is enough.
type Store struct{ c *redis.Client }

func New(addr, pass string, db int) *Store {
	return &Store{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func key(id string) string { return "selection:" + id }

func (s *Store) Get(ctx context.Context, id string, dst any) (bool, error) {
	v, err := s.c.Get(ctx, key(id)).Bytes()
	if err == redis.Nil {
		observability.ObserveSession("miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	observability.ObserveSession("hit")
	return true, json.Unmarshal(v, dst)
}

func (s *Store) Set(ctx context.Context, id string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	observability.ObserveSession("set")
	return s.c.Set(ctx, key(id), b, ttl).Err()
}

func (s *Store) Del(ctx context.Context, id string) error {
	observability.ObserveSession("del")
	return s.c.Del(ctx, key(id)).Err()
}
