package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rubik/orizuru"
	"github.com/rubik/orizuru/monitor"
)

func runServe(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to the orizuru config file (required)")
	addr := fs.String("addr", "", "Override the listen address from the config")
	fs.Usage = func() {
		fmt.Fprintln(stderr, `Usage: orizuru serve --config <file> [--addr <addr>]

Run the HTTP monitoring API until interrupted. Requires
monitoring.api.enabled: true in the config.

Flags:`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *configPath == "" {
		fs.Usage()
		return 1
	}

	cfg, err := orizuru.LoadConfigFile(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "orizuru: %v\n", err)
		return 1
	}
	if !cfg.Monitoring.API.Enabled {
		fmt.Fprintf(stderr, "orizuru: monitoring API is disabled in %s (set monitoring.api.enabled: true)\n", *configPath)
		return 1
	}

	tr, err := orizuru.NewRedisTransport(cfg.RedisOptions()...)
	if err != nil {
		fmt.Fprintf(stderr, "orizuru: %v\n", err)
		return 1
	}
	defer tr.Close()

	logger := orizuru.NewLoggerFromLevel(cfg.App.LogLevel)

	mcfg := monitor.Config{
		Addr:              cfg.Monitoring.API.Addr,
		Prefix:            cfg.Prefix(),
		Queues:            cfg.QueueNames(),
		Consumers:         cfg.Consumers,
		RegistryDiscovery: cfg.GC.RegistryDiscovery,
		AuthEnabled:       cfg.Monitoring.Auth.Enabled,
	}
	if *addr != "" {
		mcfg.Addr = *addr
	}
	for _, u := range cfg.Monitoring.Auth.Users {
		mcfg.AuthUsers = append(mcfg.AuthUsers, monitor.AuthUser{
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
			Role:         u.Role,
		})
	}
	for _, k := range cfg.Monitoring.Auth.APIKeys {
		mcfg.APIKeys = append(mcfg.APIKeys, monitor.AuthAPIKey{
			Name: k.Name,
			Key:  k.Key,
			Role: k.Role,
		})
	}

	m := monitor.New(mcfg, tr, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.Start()
	}()
	fmt.Fprintf(stdout, "Monitoring API listening on %s\n", m.Addr())

	select {
	case err := <-errCh:
		// The server stopped on its own, before any signal.
		if err != nil {
			fmt.Fprintf(stderr, "orizuru: monitor: %v\n", err)
			return 1
		}
		return 0
	case <-ctx.Done():
	}

	shutdownTimeout := time.Duration(cfg.App.ShutdownTimeout) * time.Second
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := m.Stop(sctx); err != nil {
		fmt.Fprintf(stderr, "orizuru: shutdown: %v\n", err)
		return 1
	}
	<-errCh

	fmt.Fprintln(stdout, "Monitor stopped")
	return 0
}
