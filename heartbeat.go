package orizuru

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Register adds this consumer's id to the shared registry set, making it
// discoverable by collectors running with registry discovery. Returns
// ErrRegistryUnsupported when the transport has no registry.
func (c *Consumer[T]) Register(ctx context.Context) error {
	reg, ok := registryOf(c.transport)
	if !ok {
		return ErrRegistryUnsupported
	}
	if err := reg.AddConsumer(ctx, consumersKey(c.prefix), c.id); err != nil {
		return fmt.Errorf("registering consumer %s: %w", c.id, err)
	}
	return nil
}

// Deregister removes this consumer's id from the shared registry set.
// Returns ErrRegistryUnsupported when the transport has no registry.
func (c *Consumer[T]) Deregister(ctx context.Context) error {
	reg, ok := registryOf(c.transport)
	if !ok {
		return ErrRegistryUnsupported
	}
	if err := reg.RemoveConsumer(ctx, consumersKey(c.prefix), c.id); err != nil {
		return fmt.Errorf("deregistering consumer %s: %w", c.id, err)
	}
	return nil
}

// Heartbeat records a liveness timestamp for this consumer: a per-consumer
// key expiring after ttl, plus an entry in the shared heartbeats hash when
// the transport has a registry. Monitoring reads the expiring key to decide
// whether a consumer is alive. Returns the recorded unix timestamp.
func (c *Consumer[T]) Heartbeat(ctx context.Context, ttl time.Duration) (int64, error) {
	ts := time.Now().Unix()
	val := strconv.FormatInt(ts, 10)

	if err := c.transport.Set(ctx, heartbeatKey(c.prefix, c.id), []byte(val), ttl); err != nil {
		return 0, fmt.Errorf("heartbeat for consumer %s: %w", c.id, err)
	}
	if reg, ok := registryOf(c.transport); ok {
		if err := reg.RecordHeartbeat(ctx, heartbeatsKey(c.prefix), c.id, ts); err != nil {
			return 0, fmt.Errorf("heartbeat for consumer %s: %w", c.id, err)
		}
	}
	return ts, nil
}
