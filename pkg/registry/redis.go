package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/movey-network/movey/pkg/deps"
)

// DefaultRedisKey is the hash holding all records, one field per scheme.
const DefaultRedisKey = "movey:packages"

// RedisConfig configures a [RedisIndex].
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string // defaults to DefaultRedisKey
}

// RedisIndex stores records as JSON values in a Redis hash.
type RedisIndex struct {
	client *redis.Client
	key    string
}

// NewRedisIndex connects to Redis and verifies the connection.
func NewRedisIndex(ctx context.Context, cfg RedisConfig) (*RedisIndex, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return newRedisIndex(client, cfg.Key), nil
}

func newRedisIndex(client *redis.Client, key string) *RedisIndex {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisIndex{client: client, key: key}
}

func (r *RedisIndex) Get(ctx context.Context, scheme string) (deps.Dependency, bool, error) {
	data, err := r.client.HGet(ctx, r.key, scheme).Bytes()
	if errors.Is(err, redis.Nil) {
		return deps.Dependency{}, false, nil
	}
	if err != nil {
		return deps.Dependency{}, false, fmt.Errorf("redis hget %s: %w", scheme, err)
	}

	var d deps.Dependency
	if err := json.Unmarshal(data, &d); err != nil {
		return deps.Dependency{}, false, fmt.Errorf("decode record %s: %w", scheme, err)
	}
	return d, true, nil
}

func (r *RedisIndex) Put(ctx context.Context, d deps.Dependency) error {
	if d.Scheme == "" {
		return fmt.Errorf("record %q has no scheme", d.Name)
	}
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", d.Scheme, err)
	}
	if err := r.client.HSet(ctx, r.key, d.Scheme, data).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", d.Scheme, err)
	}
	return nil
}

func (r *RedisIndex) Name() string { return "redis" }

func (r *RedisIndex) Close(context.Context) error { return r.client.Close() }
