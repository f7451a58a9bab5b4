package orizuru

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	PoolSize  int
	TLSConfig *tls.Config

	// existingClient allows injecting a pre-configured *redis.Client,
	// bypassing the built-in connection setup. When set, Addr, Password,
	// DB, PoolSize, and TLSConfig are ignored.
	existingClient *redis.Client
}

// RedisTransport implements Transport and ConsumerRegistry on a go-redis
// client. Queue lists map onto Redis lists, the consumer registry onto a set,
// heartbeats onto an expiring string key plus a hash.
type RedisTransport struct {
	rdb   *redis.Client
	owned bool // true if this package created the client (and should close it)
}

var (
	_ Transport        = (*RedisTransport)(nil)
	_ ConsumerRegistry = (*RedisTransport)(nil)
)

// NewRedisTransport creates a RedisTransport with the given options.
// If WithRedisClient was used to inject an existing *redis.Client, it is
// used directly and connection options (Addr, Password, DB, PoolSize,
// TLSConfig) are ignored.
func NewRedisTransport(opts ...RedisOption) (*RedisTransport, error) {
	cfg := &RedisConfig{
		Addr: "localhost:6379",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	rdb := cfg.existingClient
	owned := rdb == nil
	if rdb == nil {
		rdb = redis.NewClient(&redis.Options{
			Addr:      cfg.Addr,
			Password:  cfg.Password,
			DB:        cfg.DB,
			PoolSize:  cfg.PoolSize,
			TLSConfig: cfg.TLSConfig,
		})
	}

	return &RedisTransport{rdb: rdb, owned: owned}, nil
}

// Ping checks the Redis connection.
func (rt *RedisTransport) Ping(ctx context.Context) error {
	if err := rt.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close closes the underlying Redis connection. If the client was injected
// via WithRedisClient, Close is a no-op: the caller retains ownership and
// is responsible for closing it.
func (rt *RedisTransport) Close() error {
	if !rt.owned {
		return nil
	}
	return rt.rdb.Close()
}

// Unwrap returns the underlying go-redis client for advanced operations.
func (rt *RedisTransport) Unwrap() *redis.Client {
	return rt.rdb
}

// BlockingMove atomically moves the tail of src to the head of dst with
// BLMOVE, waiting up to timeout. A zero timeout blocks until an entry
// arrives or ctx is cancelled. Returns (nil, nil) when the wait elapses
// with src still empty.
func (rt *RedisTransport) BlockingMove(ctx context.Context, src, dst string, timeout time.Duration) ([]byte, error) {
	v, err := rt.rdb.BLMove(ctx, src, dst, "RIGHT", "LEFT", timeout).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis blmove %s -> %s: %w", src, dst, err)
	}
	return []byte(v), nil
}

// Move atomically moves the tail of src to the head of dst with LMOVE.
// Returns (nil, nil) when src is empty.
func (rt *RedisTransport) Move(ctx context.Context, src, dst string) ([]byte, error) {
	v, err := rt.rdb.LMove(ctx, src, dst, "RIGHT", "LEFT").Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis lmove %s -> %s: %w", src, dst, err)
	}
	return []byte(v), nil
}

// Push appends payload to the head of list with LPUSH and returns the new
// list length. Entries are consumed from the tail, so the list behaves FIFO.
func (rt *RedisTransport) Push(ctx context.Context, list string, payload []byte) (int64, error) {
	n, err := rt.rdb.LPush(ctx, list, payload).Result()
	if err != nil {
		return 0, fmt.Errorf("redis lpush %s: %w", list, err)
	}
	return n, nil
}

// RemoveFirst removes the first occurrence of payload from list with
// LREM count=1 and returns the removed count.
func (rt *RedisTransport) RemoveFirst(ctx context.Context, list string, payload []byte) (int64, error) {
	n, err := rt.rdb.LRem(ctx, list, 1, payload).Result()
	if err != nil {
		return 0, fmt.Errorf("redis lrem %s: %w", list, err)
	}
	return n, nil
}

// PushAndRemove appends payload to dst and removes its first occurrence from
// src in one atomic step, via a server-side script.
func (rt *RedisTransport) PushAndRemove(ctx context.Context, dst, src string, payload []byte) error {
	if err := pushAndRemoveScript.Run(ctx, rt.rdb, []string{dst, src}, payload).Err(); err != nil {
		return fmt.Errorf("redis push+remove %s -> %s: %w", src, dst, err)
	}
	return nil
}

// Len returns the length of list.
func (rt *RedisTransport) Len(ctx context.Context, list string) (int64, error) {
	n, err := rt.rdb.LLen(ctx, list).Result()
	if err != nil {
		return 0, fmt.Errorf("redis llen %s: %w", list, err)
	}
	return n, nil
}

// IsEmpty reports whether list has no entries.
func (rt *RedisTransport) IsEmpty(ctx context.Context, list string) (bool, error) {
	n, err := rt.Len(ctx, list)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// Get returns the value at key, or (nil, nil) when missing or expired.
func (rt *RedisTransport) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := rt.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

// Set stores value at key, expiring after ttl when ttl > 0.
func (rt *RedisTransport) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := rt.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Del removes the given keys.
func (rt *RedisTransport) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := rt.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// AddConsumer adds id to the consumer set at key.
func (rt *RedisTransport) AddConsumer(ctx context.Context, key, id string) error {
	if err := rt.rdb.SAdd(ctx, key, id).Err(); err != nil {
		return fmt.Errorf("redis sadd %s: %w", key, err)
	}
	return nil
}

// RemoveConsumer removes id from the consumer set at key.
func (rt *RedisTransport) RemoveConsumer(ctx context.Context, key, id string) error {
	if err := rt.rdb.SRem(ctx, key, id).Err(); err != nil {
		return fmt.Errorf("redis srem %s: %w", key, err)
	}
	return nil
}

// Consumers returns all ids in the consumer set at key.
func (rt *RedisTransport) Consumers(ctx context.Context, key string) ([]string, error) {
	ids, err := rt.rdb.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers %s: %w", key, err)
	}
	return ids, nil
}

// RecordHeartbeat sets the last-heartbeat timestamp for id in the hash at key.
func (rt *RedisTransport) RecordHeartbeat(ctx context.Context, key, id string, ts int64) error {
	if err := rt.rdb.HSet(ctx, key, id, ts).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", key, err)
	}
	return nil
}

// Heartbeats returns the last-heartbeat timestamps recorded in the hash at
// key, by consumer id.
func (rt *RedisTransport) Heartbeats(ctx context.Context, key string) (map[string]int64, error) {
	entries, err := rt.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall %s: %w", key, err)
	}
	beats := make(map[string]int64, len(entries))
	for id, raw := range entries {
		beats[id] = parseInt64(raw)
	}
	return beats, nil
}

// RedisOption configures a RedisConfig.
type RedisOption func(*RedisConfig)

// WithRedisAddr sets the Redis server address.
func WithRedisAddr(addr string) RedisOption {
	return func(cfg *RedisConfig) { cfg.Addr = addr }
}

// WithRedisPassword sets the Redis password.
func WithRedisPassword(password string) RedisOption {
	return func(cfg *RedisConfig) { cfg.Password = password }
}

// WithRedisDB sets the Redis database number.
func WithRedisDB(db int) RedisOption {
	return func(cfg *RedisConfig) { cfg.DB = db }
}

// WithRedisPoolSize sets the connection pool size. Blocking fetches hold a
// connection for their full wait, so size the pool above the number of
// concurrently blocking consumers sharing the transport.
func WithRedisPoolSize(n int) RedisOption {
	return func(cfg *RedisConfig) { cfg.PoolSize = n }
}

// WithRedisTLS enables TLS for the Redis connection. Pass nil for default TLS
// configuration (system CA pool), or provide a custom *tls.Config for
// client certificates, custom CA, or other TLS settings.
func WithRedisTLS(tc *tls.Config) RedisOption {
	return func(cfg *RedisConfig) {
		if tc == nil {
			tc = &tls.Config{} //nolint:gosec // empty = system CA pool
		}
		cfg.TLSConfig = tc
	}
}

// WithRedisClient injects a pre-configured *redis.Client, bypassing the
// built-in connection setup. This enables Redis Sentinel, Cluster, or any
// custom configuration supported by go-redis.
//
// When used, connection options (WithRedisAddr, WithRedisPassword,
// WithRedisDB, WithRedisPoolSize, WithRedisTLS) are ignored.
//
// Ownership: the caller retains ownership of rdb. The transport will NOT
// close it; you must close it yourself once all producers and consumers
// sharing it are done.
//
// Example (Sentinel):
//
//	rdb := redis.NewFailoverClient(&redis.FailoverOptions{
//	    MasterName:    "mymaster",
//	    SentinelAddrs: []string{"sentinel1:26379", "sentinel2:26379"},
//	})
//	defer rdb.Close()
//	transport, _ := orizuru.NewRedisTransport(orizuru.WithRedisClient(rdb))
func WithRedisClient(rdb *redis.Client) RedisOption {
	return func(cfg *RedisConfig) { cfg.existingClient = rdb }
}
