package orizuru

import (
	"context"
	"time"
)

// Transport is the capability the queue requires from the underlying
// key-value store client. All operations take fully derived key strings;
// key naming stays inside this package. Implementations must guarantee that
// BlockingMove, Move, PushAndRemove and RemoveFirst are each a single atomic
// operation with no observable intermediate state, since every queue
// transition relies on exactly that.
//
// A Transport must be safe for concurrent use; the bundled RedisTransport
// inherits this from go-redis connection pooling.
type Transport interface {
	// BlockingMove atomically pops the oldest entry of src and appends it to
	// dst, waiting up to timeout for src to become non-empty. A zero timeout
	// waits indefinitely (bounded only by ctx). Returns (nil, nil) when the
	// wait elapses with nothing available.
	BlockingMove(ctx context.Context, src, dst string, timeout time.Duration) ([]byte, error)

	// Move is the non-blocking form of BlockingMove: (nil, nil) when src is
	// empty.
	Move(ctx context.Context, src, dst string) ([]byte, error)

	// Push appends payload to list and returns the resulting list length.
	Push(ctx context.Context, list string, payload []byte) (int64, error)

	// RemoveFirst removes the first occurrence of payload from list and
	// returns the number of entries removed (0 when absent).
	RemoveFirst(ctx context.Context, list string, payload []byte) (int64, error)

	// PushAndRemove appends payload to dst and removes its first occurrence
	// from src as one atomic operation.
	PushAndRemove(ctx context.Context, dst, src string, payload []byte) error

	// Len returns the number of entries in list (0 for a missing list).
	Len(ctx context.Context, list string) (int64, error)

	// IsEmpty reports whether list has no entries.
	IsEmpty(ctx context.Context, list string) (bool, error)

	// Get returns the value at key, or (nil, nil) when the key is missing or
	// expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value at key. A ttl > 0 makes the key expire after that
	// duration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Del removes the given keys. Missing keys are not an error.
	Del(ctx context.Context, keys ...string) error
}

// ConsumerRegistry is an optional Transport extension backing consumer
// discovery and heartbeat bookkeeping. Transports that cannot provide set and
// hash primitives simply do not implement it; registry-dependent features
// (Consumer.Register, registry-driven Collector discovery) then report
// ErrRegistryUnsupported or fall back to configured consumer ids.
type ConsumerRegistry interface {
	// AddConsumer adds id to the consumer set at key.
	AddConsumer(ctx context.Context, key, id string) error

	// RemoveConsumer removes id from the consumer set at key.
	RemoveConsumer(ctx context.Context, key, id string) error

	// Consumers returns all ids in the consumer set at key.
	Consumers(ctx context.Context, key string) ([]string, error)

	// RecordHeartbeat sets the last-heartbeat timestamp for id in the hash at
	// key.
	RecordHeartbeat(ctx context.Context, key, id string, ts int64) error

	// Heartbeats returns the last-heartbeat timestamps recorded in the hash
	// at key, by consumer id.
	Heartbeats(ctx context.Context, key string) (map[string]int64, error)
}

// registryOf returns the transport's ConsumerRegistry when it implements one.
func registryOf(t Transport) (ConsumerRegistry, bool) {
	reg, ok := t.(ConsumerRegistry)
	return reg, ok
}
