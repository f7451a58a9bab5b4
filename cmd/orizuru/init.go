package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

const configTemplate = `# orizuru configuration
# Documentation: https://github.com/rubik/orizuru

# Redis connection settings
redis:
  addr: "localhost:6379"
  password: ""
  db: 0
  pool_size: 10
  prefix: "orizuru"      # Key prefix for all orizuru data in Redis

# Application settings
app:
  log_level: "info"      # debug, info, warn, error
  shutdown_timeout: 10   # seconds; max wait for graceful shutdown

# Queue definitions
queues:
  - name: "jobs"
  # - name: "emails"

# Consumer ids swept by the garbage collector and shown by the monitor.
# With gc.registry_discovery enabled, consumers that register themselves
# are discovered automatically and this list can stay empty.
consumers: []
# consumers: ["worker-1", "worker-2"]

# Garbage collector settings
gc:
  interval: 30               # seconds between sweep cycles
  registry_discovery: true   # also sweep consumers found in the registry

# Monitoring (HTTP API)
monitoring:
  auth:
    enabled: false           # Set to true to enable authentication
    # users:
    #   - username: "admin"
    #     password_hash: ""  # Generate with: orizuru hash-password <password>
    #     role: "admin"      # admin or viewer
    # api_keys:
    #   - name: "my-key"
    #     key: ""            # Generate with: orizuru generate-api-key
    #     role: "admin"      # admin or viewer
  api:
    enabled: false           # Set to true to enable the HTTP API
    addr: ":8080"
`

func runInit(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "orizuru.yaml", "Path for the new config file")
	fs.Usage = func() {
		fmt.Fprintln(stderr, `Usage: orizuru init [--config <file>]

Generate an orizuru config file with sensible defaults and documentation
comments. Default output: orizuru.yaml in the current directory.

Flags:`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}

	// Prevent overwriting an existing file.
	if _, err := os.Stat(*configPath); err == nil {
		fmt.Fprintf(stderr, "orizuru: %s already exists (will not overwrite)\n", *configPath)
		return 1
	}

	if err := os.WriteFile(*configPath, []byte(configTemplate), 0o644); err != nil {
		fmt.Fprintf(stderr, "orizuru: writing config: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Config file created: %s\n\n", *configPath)
	fmt.Fprintln(stdout, "Next steps:")
	fmt.Fprintln(stdout, "  1. Edit the config file to match your environment")
	fmt.Fprintln(stdout, "  2. Set up monitor authentication:")
	fmt.Fprintln(stdout, "       orizuru set-password --config "+*configPath+" --user admin")
	fmt.Fprintln(stdout, "       orizuru add-api-key --config "+*configPath+" --name my-key")
	fmt.Fprintln(stdout, "  3. Start the monitor: orizuru serve --config "+*configPath)
	return 0
}
