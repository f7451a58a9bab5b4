package orizuru

import (
	"context"
	"fmt"
	"log/slog"
)

// Producer pushes messages onto a logical queue. Multiple producers may
// share a queue; their pushes interleave in the order the transport
// serializes them.
type Producer[T any] struct {
	queue     string
	source    string
	transport Transport
	codec     Codec[T]
	logger    *slog.Logger
}

// NewProducer creates a Producer bound to the given queue.
func NewProducer[T any](queue string, transport Transport, codec Codec[T], opts ...Option) (*Producer[T], error) {
	if err := validateQueueName(queue); err != nil {
		return nil, err
	}
	o := newOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Producer[T]{
		queue:     queue,
		source:    sourceKey(o.prefix, queue),
		transport: transport,
		codec:     codec,
		logger:    o.logger.With("component", "producer", "queue", queue),
	}, nil
}

// Push encodes msg and appends it to the source queue. It returns the
// resulting queue length, useful as a backlog gauge. Encode failures abort
// before any transport call and satisfy errors.Is(err, ErrEncode); transport
// failures are propagated unchanged. Push never retries.
func (p *Producer[T]) Push(ctx context.Context, msg T) (int64, error) {
	data, err := p.codec.Encode(msg)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	n, err := p.transport.Push(ctx, p.source, data)
	if err != nil {
		return 0, fmt.Errorf("pushing to queue %s: %w", p.queue, err)
	}
	p.logger.Debug("message pushed", "queue_len", n)
	return n, nil
}

// Size returns the number of messages waiting in the source queue.
func (p *Producer[T]) Size(ctx context.Context) (int64, error) {
	return p.transport.Len(ctx, p.source)
}

// Queue returns the logical queue name.
func (p *Producer[T]) Queue() string {
	return p.queue
}

// SourceQueue returns the derived source list key.
func (p *Producer[T]) SourceQueue() string {
	return p.source
}
