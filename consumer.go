package orizuru

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// Consumer fetches messages from a logical queue. Each consumer instance has
// an id that namespaces its processing and unack lists, so concurrent
// consumers of the same queue never see each other's in-flight messages.
//
// Reusing an id after a restart is how a consumer reclaims its earlier
// rejected messages: a Collector configured with that id sweeps the old
// unack list back to the source queue.
//
// A Consumer's methods may be called from multiple goroutines, though
// typically one goroutine runs the Next loop.
type Consumer[T any] struct {
	queue  string
	id     string
	prefix string

	source     string
	processing string
	unack      string

	transport   Transport
	codec       Codec[T]
	logger      *slog.Logger
	nextTimeout time.Duration

	stopped atomic.Bool
}

// NewConsumer creates a Consumer for the given queue and consumer id. An
// empty id gets a generated "consumer-<uuid>" identity; note that generated
// ids change across restarts, so rejected messages of a dead generated id
// are only recovered by a Collector using registry discovery.
func NewConsumer[T any](queue, id string, transport Transport, codec Codec[T], opts ...Option) (*Consumer[T], error) {
	if err := validateQueueName(queue); err != nil {
		return nil, err
	}
	if id == "" {
		id = "consumer-" + newUUID()
	}
	if err := validateConsumerID(id); err != nil {
		return nil, err
	}

	o := newOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Consumer[T]{
		queue:       queue,
		id:          id,
		prefix:      o.prefix,
		source:      sourceKey(o.prefix, queue),
		processing:  processingKey(o.prefix, queue, id),
		unack:       unackKey(o.prefix, queue, id),
		transport:   transport,
		codec:       codec,
		logger:      o.logger.With("component", "consumer", "queue", queue, "consumer", id),
		nextTimeout: o.nextTimeout,
	}, nil
}

// Next fetches the next message, waiting up to the configured default
// timeout (WithNextTimeout; zero blocks until ctx is cancelled).
// See NextTimeout.
func (c *Consumer[T]) Next(ctx context.Context) (*Delivery[T], error) {
	return c.NextTimeout(ctx, c.nextTimeout)
}

// NextTimeout fetches the next message, waiting up to timeout for one to
// arrive. The fetch is a single atomic move from the source list to this
// consumer's processing list, so with any number of concurrent consumers a
// message is claimed by exactly one of them.
//
// Returns (nil, nil) when the wait elapses with no message: an empty queue
// is not an error. Returns ErrConsumerStopped after Stop. A *DecodeError
// means a message was claimed but could not be decoded; its bytes stay in
// the processing queue for inspection rather than being dropped.
func (c *Consumer[T]) NextTimeout(ctx context.Context, timeout time.Duration) (*Delivery[T], error) {
	if c.stopped.Load() {
		return nil, ErrConsumerStopped
	}

	raw, err := c.transport.BlockingMove(ctx, c.source, c.processing, timeout)
	if err != nil {
		return nil, fmt.Errorf("fetching from queue %s: %w", c.queue, err)
	}
	if raw == nil {
		return nil, nil
	}

	payload, err := c.codec.Decode(raw)
	if err != nil {
		c.logger.Warn("message decode failed, bytes kept in processing queue",
			"bytes", len(raw), "error", err)
		return nil, &DecodeError{Queue: c.queue, Consumer: c.id, Payload: raw, Err: err}
	}

	c.logger.Debug("message fetched", "bytes", len(raw))
	return newDelivery(c, payload, raw), nil
}

// Stop makes every subsequent Next call return ErrConsumerStopped and
// removes this consumer from the registry when the transport supports one.
// Messages already fetched are unaffected; their guards still finalize
// normally.
func (c *Consumer[T]) Stop(ctx context.Context) error {
	c.stopped.Store(true)
	reg, ok := registryOf(c.transport)
	if !ok {
		return nil
	}
	if err := reg.RemoveConsumer(ctx, consumersKey(c.prefix), c.id); err != nil {
		return fmt.Errorf("deregistering consumer %s: %w", c.id, err)
	}
	c.logger.Debug("consumer stopped")
	return nil
}

// Stopped reports whether Stop has been called.
func (c *Consumer[T]) Stopped() bool {
	return c.stopped.Load()
}

// Size returns the number of messages waiting in the source queue.
func (c *Consumer[T]) Size(ctx context.Context) (int64, error) {
	return c.transport.Len(ctx, c.source)
}

// ID returns the consumer id.
func (c *Consumer[T]) ID() string {
	return c.id
}

// Queue returns the logical queue name.
func (c *Consumer[T]) Queue() string {
	return c.queue
}

// SourceQueue returns the derived source list key.
func (c *Consumer[T]) SourceQueue() string {
	return c.source
}

// ProcessingQueue returns the derived processing list key.
func (c *Consumer[T]) ProcessingQueue() string {
	return c.processing
}

// UnackQueue returns the derived unack list key.
func (c *Consumer[T]) UnackQueue() string {
	return c.unack
}
