// Package monitor provides the HTTP monitoring API for orizuru queues.
package monitor

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/rubik/orizuru"
)

// Config holds all configuration needed by the Monitor.
type Config struct {
	// Addr is the listen address, defaulting to ":8080".
	Addr string

	// Prefix is the Redis key prefix shared with producers and consumers.
	// Defaults to orizuru.DefaultPrefix.
	Prefix string

	// Queues are the queue names the monitor reports on.
	Queues []string

	// Consumers are statically configured consumer ids. When
	// RegistryDiscovery is set, ids found in the consumer registry are
	// merged in.
	Consumers         []string
	RegistryDiscovery bool

	AuthEnabled bool
	AuthUsers   []AuthUser
	APIKeys     []AuthAPIKey

	// RateLimit is the per-IP request budget in requests per second.
	// Zero means the default.
	RateLimit int
}

// AuthUser is a basic-auth credential. PasswordHash is a bcrypt hash.
type AuthUser struct {
	Username     string
	PasswordHash string
	Role         string
}

// AuthAPIKey is an API key credential checked against the X-API-Key header.
type AuthAPIKey struct {
	Name string
	Key  string
	Role string
}

// Monitor manages the HTTP monitoring server.
type Monitor struct {
	server    *http.Server
	mux       *http.ServeMux
	transport orizuru.Transport
	logger    *slog.Logger
	cfg       Config
	prefix    string
	limiter   *rateLimiter
	startedAt time.Time
}

// pinger is implemented by transports that can report backend liveness.
type pinger interface {
	Ping(ctx context.Context) error
}

// New creates a Monitor serving queue state read from transport.
func New(cfg Config, transport orizuru.Transport, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = orizuru.DefaultPrefix
	}

	m := &Monitor{
		transport: transport,
		logger:    logger.With("component", "monitor"),
		cfg:       cfg,
		prefix:    prefix,
		limiter:   newRateLimiter(cfg.RateLimit),
	}

	m.mux = http.NewServeMux()
	m.setupRoutes()

	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}

	m.server = &http.Server{
		Addr:         addr,
		Handler:      m.limiter.middleware(m.mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return m
}

// Start starts the HTTP server. Blocks until the server is stopped or errors.
// Returns nil on graceful shutdown.
func (m *Monitor) Start() error {
	m.startedAt = time.Now()
	m.logger.Info("monitor HTTP server starting", "addr", m.server.Addr)
	err := m.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop gracefully shuts down the HTTP server.
func (m *Monitor) Stop(ctx context.Context) error {
	m.logger.Info("monitor HTTP server stopping")
	m.limiter.close()
	return m.server.Shutdown(ctx)
}

// Addr returns the listen address, with the default applied.
func (m *Monitor) Addr() string {
	return m.server.Addr
}

// key builds a prefixed Redis key. The layout must stay in sync with the
// keys produced by the root package.
func (m *Monitor) key(parts ...string) string {
	k := m.prefix
	for _, p := range parts {
		k += ":" + p
	}
	return k
}

// hasQueue reports whether name is one of the configured queues.
func (m *Monitor) hasQueue(name string) bool {
	for _, q := range m.cfg.Queues {
		if q == name {
			return true
		}
	}
	return false
}
