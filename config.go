package orizuru

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level YAML configuration file shared by the CLI
// tools, the monitor server and collector daemons. Library users composing
// producers and consumers in code do not need it.
type Config struct {
	Redis      RedisYAML        `yaml:"redis"`
	App        AppConfig        `yaml:"app"`
	Queues     []QueueDef       `yaml:"queues"`
	Consumers  []string         `yaml:"consumers"`
	GC         GCConfig         `yaml:"gc"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

// RedisYAML holds Redis connection settings from YAML.
type RedisYAML struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
	Prefix   string `yaml:"prefix"`
}

// AppConfig holds application-level settings from YAML.
type AppConfig struct {
	LogLevel        string `yaml:"log_level"`
	ShutdownTimeout int    `yaml:"shutdown_timeout"` // seconds
}

// QueueDef declares a named logical queue.
type QueueDef struct {
	Name string `yaml:"name"`
}

// GCConfig holds collector settings from YAML. The consumers swept are the
// top-level `consumers` list, optionally extended by registry discovery.
type GCConfig struct {
	Interval          int  `yaml:"interval"` // seconds
	RegistryDiscovery bool `yaml:"registry_discovery"`
}

// MonitoringConfig holds the HTTP monitoring API settings from YAML.
type MonitoringConfig struct {
	Auth AuthConfig `yaml:"auth"`
	API  APIConfig  `yaml:"api"`
}

// AuthConfig holds monitoring auth settings from YAML.
type AuthConfig struct {
	Enabled bool         `yaml:"enabled"`
	Users   []UserYAML   `yaml:"users"`
	APIKeys []APIKeyYAML `yaml:"api_keys"`
}

// UserYAML holds one basic-auth user from YAML.
type UserYAML struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"` // bcrypt
	Role         string `yaml:"role"`          // admin or viewer
}

// APIKeyYAML holds one API key from YAML.
type APIKeyYAML struct {
	Name string `yaml:"name"`
	Key  string `yaml:"key"`
	Role string `yaml:"role"` // admin or viewer
}

// APIConfig holds the HTTP API server settings from YAML.
type APIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LoadConfig parses YAML bytes and validates the resulting configuration.
func LoadConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config yaml: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML file and returns a validated Config.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadConfig(data)
}

// validate performs structural validation of the configuration.
func (c *Config) validate() error {
	// Redis
	if c.Redis.DB < 0 {
		return fmt.Errorf("redis.db must be >= 0")
	}
	if c.Redis.PoolSize < 0 {
		return fmt.Errorf("redis.pool_size must be >= 0")
	}
	if c.Redis.Prefix != "" && !safeNameRe.MatchString(c.Redis.Prefix) {
		return fmt.Errorf("redis.prefix %q: invalid characters", c.Redis.Prefix)
	}

	// App
	if c.App.LogLevel != "" {
		switch strings.ToLower(c.App.LogLevel) {
		case "debug", "info", "warn", "error":
			// ok
		default:
			return fmt.Errorf("app.log_level: must be one of debug, info, warn, error; got %q", c.App.LogLevel)
		}
	}
	if c.App.ShutdownTimeout < 0 {
		return fmt.Errorf("app.shutdown_timeout must be >= 0")
	}

	// Queues
	queueNames := make(map[string]bool, len(c.Queues))
	for i, q := range c.Queues {
		if q.Name == "" {
			return fmt.Errorf("queues[%d].name must not be empty", i)
		}
		if !safeNameRe.MatchString(q.Name) || len(q.Name) > 128 {
			return fmt.Errorf("queues[%d].name %q: invalid characters or too long (max 128)", i, q.Name)
		}
		if queueNames[q.Name] {
			return fmt.Errorf("queues[%d].name %q: duplicate queue name", i, q.Name)
		}
		queueNames[q.Name] = true
	}

	// Consumers
	consumerIDs := make(map[string]bool, len(c.Consumers))
	for i, id := range c.Consumers {
		if id == "" {
			return fmt.Errorf("consumers[%d] must not be empty", i)
		}
		if !safeNameRe.MatchString(id) || len(id) > 128 {
			return fmt.Errorf("consumers[%d] %q: invalid characters or too long (max 128)", i, id)
		}
		if consumerIDs[id] {
			return fmt.Errorf("consumers[%d] %q: duplicate consumer id", i, id)
		}
		consumerIDs[id] = true
	}

	// GC
	if c.GC.Interval < 0 {
		return fmt.Errorf("gc.interval must be >= 0")
	}

	// Monitoring
	if c.Monitoring.Auth.Enabled {
		if len(c.Monitoring.Auth.Users) == 0 && len(c.Monitoring.Auth.APIKeys) == 0 {
			return fmt.Errorf("monitoring.auth: enabled but no users or api_keys configured")
		}
	}
	for i, u := range c.Monitoring.Auth.Users {
		if u.Username == "" {
			return fmt.Errorf("monitoring.auth.users[%d].username must not be empty", i)
		}
		if u.PasswordHash == "" {
			return fmt.Errorf("monitoring.auth.users[%d] %q: password_hash must not be empty (generate with: orizuru hash-password)", i, u.Username)
		}
		if err := validateRole(u.Role); err != nil {
			return fmt.Errorf("monitoring.auth.users[%d] %q: %w", i, u.Username, err)
		}
	}
	keyNames := make(map[string]bool, len(c.Monitoring.Auth.APIKeys))
	for i, k := range c.Monitoring.Auth.APIKeys {
		if k.Name == "" {
			return fmt.Errorf("monitoring.auth.api_keys[%d].name must not be empty", i)
		}
		if keyNames[k.Name] {
			return fmt.Errorf("monitoring.auth.api_keys[%d].name %q: duplicate key name", i, k.Name)
		}
		keyNames[k.Name] = true
		if k.Key == "" {
			return fmt.Errorf("monitoring.auth.api_keys[%d] %q: key must not be empty (generate with: orizuru generate-api-key)", i, k.Name)
		}
		if err := validateRole(k.Role); err != nil {
			return fmt.Errorf("monitoring.auth.api_keys[%d] %q: %w", i, k.Name, err)
		}
	}

	return nil
}

func validateRole(role string) error {
	switch role {
	case "", "admin", "viewer":
		return nil
	default:
		return fmt.Errorf("role must be admin or viewer; got %q", role)
	}
}

// Prefix returns the configured key prefix, or DefaultPrefix when unset.
func (c *Config) Prefix() string {
	if c.Redis.Prefix != "" {
		return c.Redis.Prefix
	}
	return DefaultPrefix
}

// QueueNames returns the declared queue names in config order.
func (c *Config) QueueNames() []string {
	names := make([]string, len(c.Queues))
	for i, q := range c.Queues {
		names[i] = q.Name
	}
	return names
}

// RedisOptions converts the Redis section into NewRedisTransport options.
func (c *Config) RedisOptions() []RedisOption {
	var opts []RedisOption
	if c.Redis.Addr != "" {
		opts = append(opts, WithRedisAddr(c.Redis.Addr))
	}
	if c.Redis.Password != "" {
		opts = append(opts, WithRedisPassword(c.Redis.Password))
	}
	if c.Redis.DB != 0 {
		opts = append(opts, WithRedisDB(c.Redis.DB))
	}
	if c.Redis.PoolSize > 0 {
		opts = append(opts, WithRedisPoolSize(c.Redis.PoolSize))
	}
	return opts
}

// CollectorOptions converts the GC and consumers sections into NewCollector
// options (prefix included).
func (c *Config) CollectorOptions() []Option {
	opts := []Option{WithPrefix(c.Prefix())}
	if len(c.Consumers) > 0 {
		opts = append(opts, WithConsumers(c.Consumers...))
	}
	if c.GC.Interval > 0 {
		opts = append(opts, WithInterval(time.Duration(c.GC.Interval)*time.Second))
	}
	if c.GC.RegistryDiscovery {
		opts = append(opts, WithRegistryDiscovery())
	}
	return opts
}
