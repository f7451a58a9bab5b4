package orizuru

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"
)

// Collector is the garbage collector for one logical queue: it returns
// rejected messages from per-consumer unack queues to the source queue so
// they get redelivered.
//
// The sweep is stateless. Liveness is re-derived every cycle purely from
// list membership, so collectors can run from any process, restart freely,
// and even run concurrently: each move reuses the same atomic primitive as
// consumption, so two overlapping sweeps can never duplicate an entry.
//
// A Collector needs to know which consumer ids to sweep. The set is
// configuration (WithConsumers), optionally extended with every id found in
// the transport's consumer registry (WithRegistryDiscovery). Processing
// queues are never touched: a message abandoned there belongs to a consumer
// whose liveness the collector cannot judge.
type Collector struct {
	queue  string
	prefix string
	source string

	transport Transport
	logger    *slog.Logger

	consumers         []string
	registryDiscovery bool
	interval          time.Duration
}

// NewCollector creates a Collector for the given queue.
func NewCollector(queue string, transport Transport, opts ...Option) (*Collector, error) {
	if err := validateQueueName(queue); err != nil {
		return nil, err
	}
	o := newOptions()
	for _, opt := range opts {
		opt(&o)
	}
	for _, id := range o.consumers {
		if err := validateConsumerID(id); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidConsumerID, id)
		}
	}

	return &Collector{
		queue:             queue,
		prefix:            o.prefix,
		source:            sourceKey(o.prefix, queue),
		transport:         transport,
		logger:            o.logger.With("component", "gc", "queue", queue),
		consumers:         slices.Clone(o.consumers),
		registryDiscovery: o.registryDiscovery,
		interval:          o.interval,
	}, nil
}

// CollectConsumer sweeps one consumer's unack queue, moving every entry
// found back to the source queue with one atomic move each, and returns the
// number moved. The sweep never blocks: it takes the unack length once and
// moves at most that many entries, ending early when the queue runs dry
// (another sweep may be draining it concurrently).
func (g *Collector) CollectConsumer(ctx context.Context, consumerID string) (int64, error) {
	if err := validateConsumerID(consumerID); err != nil {
		return 0, err
	}
	unack := unackKey(g.prefix, g.queue, consumerID)

	n, err := g.transport.Len(ctx, unack)
	if err != nil {
		return 0, fmt.Errorf("sweeping consumer %s: %w", consumerID, err)
	}
	if n == 0 {
		return 0, nil
	}

	// Entries added after the length check are picked up next cycle;
	// entries removed concurrently just end the sweep early.
	var moved int64
	for i := int64(0); i < n; i++ {
		payload, err := g.transport.Move(ctx, unack, g.source)
		if err != nil {
			return moved, fmt.Errorf("sweeping consumer %s: %w", consumerID, err)
		}
		if payload == nil {
			break
		}
		moved++
	}
	return moved, nil
}

// Collect sweeps the unack queues of all known consumers and returns the
// total number of messages returned to the source queue. Known consumers
// are the configured ids plus, with registry discovery enabled, every id in
// the transport's registry. A failing sweep of one consumer is logged and
// skipped so it cannot stall the others.
func (g *Collector) Collect(ctx context.Context) (int64, error) {
	ids, err := g.KnownConsumers(ctx)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, id := range ids {
		moved, err := g.CollectConsumer(ctx, id)
		total += moved
		if err != nil {
			if ctx.Err() != nil {
				return total, err
			}
			g.logger.Error("sweep failed for consumer", "consumer", id, "error", err)
		}
	}
	return total, nil
}

// Run sweeps at the configured interval (WithInterval) until ctx is
// cancelled. Errors inside a cycle are logged; the next cycle retries.
func (g *Collector) Run(ctx context.Context) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	g.logger.Debug("collector started", "interval", g.interval)
	defer g.logger.Debug("collector stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			moved, err := g.Collect(ctx)
			if err != nil {
				if ctx.Err() == nil {
					g.logger.Error("sweep cycle failed", "error", err)
				}
				continue
			}
			if moved > 0 {
				g.logger.Info("messages returned to source queue", "count", moved)
			}
		}
	}
}

// Queue returns the logical queue name.
func (g *Collector) Queue() string {
	return g.queue
}

// Consumers returns the configured consumer ids (without registry
// discoveries).
func (g *Collector) Consumers() []string {
	return slices.Clone(g.consumers)
}

// KnownConsumers merges configured ids with registry members, configured
// first, without duplicates. Discovered ids are sorted for deterministic
// sweep order.
func (g *Collector) KnownConsumers(ctx context.Context) ([]string, error) {
	ids := slices.Clone(g.consumers)

	if !g.registryDiscovery {
		return ids, nil
	}
	reg, ok := registryOf(g.transport)
	if !ok {
		return ids, nil
	}

	discovered, err := reg.Consumers(ctx, consumersKey(g.prefix))
	if err != nil {
		return nil, fmt.Errorf("listing registered consumers: %w", err)
	}
	slices.Sort(discovered)
	for _, id := range discovered {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
