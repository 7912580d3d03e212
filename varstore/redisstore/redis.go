// Package redisstore provides a Redis-backed variable store. Variables live
// in one hash per kernel instance with JSON-encoded values, so a plugin's
// instances can be served by any process sharing the Redis deployment.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/joeshaw/envdecode"
	"github.com/plugrpc/plugrpc-go/plugservice"
	"github.com/plugrpc/plugrpc-go/varstore"
	"github.com/redis/go-redis/v9"
)

// Config for the Redis-backed Store. Defaults can be loaded via envdecode.
type Config struct {
	// RedisAddr like "localhost:6379". ENV: REDIS_ADDR
	RedisAddr string `env:"REDIS_ADDR,default=localhost:6379"`
	// KeyPrefix for all keys. ENV: VARSTORE_KEY_PREFIX
	KeyPrefix string `env:"VARSTORE_KEY_PREFIX,default=plugrpc:vars:"`
}

// Store is a Redis-backed varstore.Store.
type Store struct {
	client    *redis.Client
	keyPrefix string
}

// New connects to Redis and verifies the connection.
func New(cfg Config) (*Store, error) {
	addr := cfg.RedisAddr
	if addr == "" {
		addr = "localhost:6379"
	}
	cl := redis.NewClient(&redis.Options{Addr: addr})
	if err := cl.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "plugrpc:vars:"
	}
	return &Store{client: cl, keyPrefix: prefix}, nil
}

// NewFromEnv builds a Store using envdecode to populate Config.
func NewFromEnv() (*Store, error) {
	var cfg Config
	_ = envdecode.Decode(&cfg)
	return New(cfg)
}

// Close closes the Redis client.
func (s *Store) Close() error { return s.client.Close() }

func (s *Store) instanceKey(instance string) string { return s.keyPrefix + instance }

func (s *Store) List(ctx context.Context, instance string) ([]plugservice.Variable, error) {
	raw, err := s.client.HGetAll(ctx, s.instanceKey(instance)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}
	vars := make([]plugservice.Variable, 0, len(raw))
	for name, enc := range raw {
		var value any
		if err := json.Unmarshal([]byte(enc), &value); err != nil {
			return nil, fmt.Errorf("corrupt value for %q: %w", name, err)
		}
		vars = append(vars, plugservice.Variable{Name: name, Value: value})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return vars, nil
}

func (s *Store) Get(ctx context.Context, instance string, name string) (any, bool, error) {
	enc, err := s.client.HGet(ctx, s.instanceKey(instance), name).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis hget: %w", err)
	}
	var value any
	if err := json.Unmarshal([]byte(enc), &value); err != nil {
		return nil, false, fmt.Errorf("corrupt value for %q: %w", name, err)
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, instance string, name string, value any) error {
	enc, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("value for %q is not JSON-encodable: %w", name, err)
	}
	if err := s.client.HSet(ctx, s.instanceKey(instance), name, enc).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, instance string, name string) error {
	if err := s.client.HDel(ctx, s.instanceKey(instance), name).Err(); err != nil {
		return fmt.Errorf("redis hdel: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context, instance string) error {
	if err := s.client.Del(ctx, s.instanceKey(instance)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

var _ varstore.Store = (*Store)(nil)
