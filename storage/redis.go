package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

var _ Storage = Redis{}

// A Redis stores values in a Redis backend,
// namespacing every key under a prefix.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisClient constructs a *redis.Client from a Redis URL,
// like redis://localhost:6379/0.
//
// A non-empty pass overrides the password found in uri.
func NewRedisClient(uri, pass string) (*redis.Client, error) {
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadURL, err)
	}

	if pass != "" {
		opts.Password = pass
	}

	return redis.NewClient(opts), nil
}

// ErrBadURL returns when a Redis URL cannot be parsed.
var ErrBadURL = errors.New("bad redis url")

// NewRedis constructs a Redis namespacing keys with prefix.
// Values expire after ttl; a zero ttl keeps values until deleted.
func NewRedis(client *redis.Client, prefix string, ttl time.Duration) Redis {
	return Redis{client: client, prefix: prefix, ttl: ttl}
}

// Get retrieves the value paired to key from the connected Redis backend.
func (s Redis) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotExist
	}

	if err != nil {
		return "", fmt.Errorf("failed getting %q: %w", key, err)
	}

	return val, nil
}

// Set saves val by pairing it to key in the Redis backend.
func (s Redis) Set(ctx context.Context, key, val string) error {
	if err := s.client.Set(ctx, s.key(key), val, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed setting %q: %w", key, err)
	}

	return nil
}

// Delete removes keys from the Redis backend.
func (s Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = s.key(k)
	}

	if err := s.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("failed deleting %v: %w", keys, err)
	}

	return nil
}

func (s Redis) key(k string) string {
	if s.prefix == "" {
		return k
	}

	return s.prefix + ":" + k
}
