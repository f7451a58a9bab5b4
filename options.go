package orizuru

import (
	"log/slog"
	"time"
)

// options holds the shared configuration consumed by NewProducer,
// NewConsumer and NewCollector. Options that do not apply to a component
// are ignored by its constructor.
type options struct {
	prefix            string
	logger            *slog.Logger
	nextTimeout       time.Duration
	interval          time.Duration
	consumers         []string
	registryDiscovery bool
}

func newOptions() options {
	return options{
		prefix:   DefaultPrefix,
		logger:   slog.Default(),
		interval: DefaultSweepInterval,
	}
}

// DefaultSweepInterval is the Collector.Run sweep interval when
// WithInterval is not given.
const DefaultSweepInterval = 30 * time.Second

// Option configures a Producer, Consumer or Collector.
type Option func(*options)

// WithPrefix sets the key prefix under which all queue lists live.
// Producers, consumers and collectors of the same queues must agree on it.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithLogger sets the slog logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithNextTimeout sets the default wait of Consumer.Next. Zero (the
// default) blocks until a message arrives or ctx is cancelled.
// Applies to consumers.
func WithNextTimeout(d time.Duration) Option {
	return func(o *options) { o.nextTimeout = d }
}

// WithConsumers sets the consumer ids whose unack queues a Collector
// sweeps. Recovery requires the same ids consumers were created with.
// Applies to collectors.
func WithConsumers(ids ...string) Option {
	return func(o *options) { o.consumers = append(o.consumers, ids...) }
}

// WithInterval sets the Collector.Run sweep interval.
// Applies to collectors.
func WithInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithRegistryDiscovery makes a Collector additionally sweep every consumer
// id found in the transport's consumer registry, on top of the ids given via
// WithConsumers. Requires a Transport implementing ConsumerRegistry; ignored
// otherwise. Applies to collectors.
func WithRegistryDiscovery() Option {
	return func(o *options) { o.registryDiscovery = true }
}
