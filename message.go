package orizuru

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Delivery is the guard over one in-flight message. It is created by
// Consumer.Next the moment a message lands in the consumer's processing
// queue, and owns that processing-queue slot until exactly one finalization
// succeeds:
//
//   - Ack: processing fully succeeded, remove the message for good.
//   - Reject: processing failed, park the message in the unack queue for a
//     Collector to return to the source queue.
//   - PushTo: hand the message to another queue (retry queues, dead-letter
//     queues).
//
// The first successful finalization wins; any later call returns
// ErrAlreadyFinalized without touching any list. A finalization that fails
// leaves the guard pending and the message exactly where it was, so the
// caller may retry.
//
// A Delivery that is discarded without finalization leaves the message
// sitting in the processing queue. Nothing is acked or rejected implicitly:
// an automatic best-effort reject could duplicate the message if the process
// died mid-way. Such entries are not reclaimed by a Collector (which only
// sweeps unack queues) and must be dealt with out of band.
type Delivery[T any] struct {
	payload  T
	raw      []byte
	queue    string
	consumer string
	prefix   string

	processing string
	unack      string

	transport Transport
	logger    *slog.Logger

	mu        sync.Mutex
	finalized bool
}

func newDelivery[T any](c *Consumer[T], payload T, raw []byte) *Delivery[T] {
	return &Delivery[T]{
		payload:    payload,
		raw:        raw,
		queue:      c.queue,
		consumer:   c.id,
		prefix:     c.prefix,
		processing: c.processing,
		unack:      c.unack,
		transport:  c.transport,
		logger:     c.logger,
	}
}

// Payload returns the decoded message.
func (d *Delivery[T]) Payload() T {
	return d.payload
}

// Bytes returns the encoded bytes as stored in the queue. The slice is the
// delivery's backing copy; do not modify it.
func (d *Delivery[T]) Bytes() []byte {
	return d.raw
}

// Finalized reports whether a finalization has succeeded.
func (d *Delivery[T]) Finalized() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.finalized
}

// Ack removes the message from the processing queue. After a successful Ack
// the message exists in no queue and can never be redelivered.
func (d *Delivery[T]) Ack(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.finalized {
		return ErrAlreadyFinalized
	}
	n, err := d.transport.RemoveFirst(ctx, d.processing, d.raw)
	if err != nil {
		return fmt.Errorf("acking message on queue %s: %w", d.queue, err)
	}
	if n == 0 {
		d.logger.Debug("ack found no processing entry", "queue", d.queue)
	}
	d.finalized = true
	return nil
}

// Reject moves the message from the processing queue to the unack queue in
// one atomic step, preserving it for a later Collector sweep back to the
// source queue.
func (d *Delivery[T]) Reject(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.finalized {
		return ErrAlreadyFinalized
	}
	if err := d.transport.PushAndRemove(ctx, d.unack, d.processing, d.raw); err != nil {
		return fmt.Errorf("rejecting message on queue %s: %w", d.queue, err)
	}
	d.finalized = true
	return nil
}

// PushTo moves the message from the processing queue to the source queue of
// target, atomically. Pushing back onto the original queue or onto a
// dedicated retry queue are the common uses.
func (d *Delivery[T]) PushTo(ctx context.Context, target string) error {
	if err := validateQueueName(target); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.finalized {
		return ErrAlreadyFinalized
	}
	dst := sourceKey(d.prefix, target)
	if err := d.transport.PushAndRemove(ctx, dst, d.processing, d.raw); err != nil {
		return fmt.Errorf("pushing message to queue %s: %w", target, err)
	}
	d.finalized = true
	return nil
}
