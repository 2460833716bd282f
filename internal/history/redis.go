package history

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "website:history:"

// DefaultTTL is how long an idle visitor's history is kept in Redis.
const DefaultTTL = 30 * 24 * time.Hour

// RedisStore keeps one capped list per visitor.
type RedisStore struct {
	client *redis.Client
	size   int
	ttl    time.Duration
}

// NewRedisStore connects to the Redis server at url (redis://...).
func NewRedisStore(ctx context.Context, url string, size int) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewRedisStoreWithClient(client, size, DefaultTTL), nil
}

func NewRedisStoreWithClient(client *redis.Client, size int, ttl time.Duration) *RedisStore {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, size: size, ttl: ttl}
}

func (r *RedisStore) Name() string { return "redis" }

// Record moves query to the head of the visitor's list and trims it.
func (r *RedisStore) Record(ctx context.Context, visitor, query string) error {
	if visitor == "" {
		return ErrEmptyVisitor
	}
	q := cleanQuery(query)
	if q == "" {
		return nil
	}

	key := keyPrefix + visitor
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, key, 0, q)
		pipe.LPush(ctx, key, q)
		pipe.LTrim(ctx, key, 0, int64(r.size-1))
		pipe.Expire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("record history: %w", err)
	}
	return nil
}

// Recent returns up to n queries, most recent first.
func (r *RedisStore) Recent(ctx context.Context, visitor string, n int) ([]string, error) {
	if visitor == "" {
		return nil, ErrEmptyVisitor
	}
	if n <= 0 || n > r.size {
		n = r.size
	}

	list, err := r.client.LRange(ctx, keyPrefix+visitor, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return list, nil
}

// Close releases the underlying connection pool.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
