package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rubik/orizuru"
)

func runGC(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("gc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to the orizuru config file (required)")
	queue := fs.String("queue", "", "Sweep a single queue instead of all configured ones")
	interval := fs.Duration("interval", 0, "Override the sweep interval from the config")
	once := fs.Bool("once", false, "Sweep once and exit instead of running as a daemon")
	fs.Usage = func() {
		fmt.Fprintln(stderr, `Usage: orizuru gc --config <file> [flags]

Return rejected messages from unack queues to their source queues so they
get redelivered. By default sweeps all configured queues at the configured
interval until interrupted.

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
	queues := cfg.QueueNames()
	if *queue != "" {
		queues = []string{*queue}
	}
	if len(queues) == 0 {
		fmt.Fprintln(stderr, "orizuru: no queues configured; pass --queue or add queues to the config")
		return 1
	}

	tr, err := orizuru.NewRedisTransport(cfg.RedisOptions()...)
	if err != nil {
		fmt.Fprintf(stderr, "orizuru: %v\n", err)
		return 1
	}
	defer tr.Close()

	logger := orizuru.NewLoggerFromLevel(cfg.App.LogLevel)
	opts := append(cfg.CollectorOptions(), orizuru.WithLogger(logger))
	if *interval > 0 {
		opts = append(opts, orizuru.WithInterval(*interval))
	}

	collectors := make([]*orizuru.Collector, 0, len(queues))
	for _, q := range queues {
		col, err := orizuru.NewCollector(q, tr, opts...)
		if err != nil {
			fmt.Fprintf(stderr, "orizuru: %v\n", err)
			return 1
		}
		collectors = append(collectors, col)
	}

	if *once {
		ctx := context.Background()
		for _, col := range collectors {
			moved, err := col.Collect(ctx)
			if err != nil {
				fmt.Fprintf(stderr, "orizuru: sweeping %q: %v\n", col.Queue(), err)
				return 1
			}
			fmt.Fprintf(stdout, "queue %q: returned %d message(s)\n", col.Queue(), moved)
		}
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("garbage collector running", "queues", queues)
	var wg sync.WaitGroup
	for _, col := range collectors {
		wg.Add(1)
		go func(col *orizuru.Collector) {
			defer wg.Done()
			col.Run(ctx)
		}(col)
	}
	wg.Wait()

	logger.Info("garbage collector stopped")
	return 0
}
