package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/rubik/orizuru"
)

func runStat(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("stat", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to the orizuru config file (required)")
	queue := fs.String("queue", "", "Show a single queue instead of all configured ones")
	fs.Usage = func() {
		fmt.Fprintln(stderr, `Usage: orizuru stat --config <file> [--queue <name>]

Show source, processing and unack depths per queue, and whether each known
consumer has a live heartbeat.

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

	ctx := context.Background()
	prefix := cfg.Prefix()

	// The consumer set is shared by all queues under one prefix.
	col, err := orizuru.NewCollector(queues[0], tr, cfg.CollectorOptions()...)
	if err != nil {
		fmt.Fprintf(stderr, "orizuru: %v\n", err)
		return 1
	}
	ids, err := col.KnownConsumers(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "orizuru: %v\n", err)
		return 1
	}

	alive := make(map[string]bool, len(ids))
	for _, id := range ids {
		v, err := tr.Get(ctx, qkey(prefix, "heartbeat", id))
		if err != nil {
			fmt.Fprintf(stderr, "orizuru: %v\n", err)
			return 1
		}
		alive[id] = v != nil
	}

	for _, q := range queues {
		source, err := tr.Len(ctx, qkey(prefix, q, "source"))
		if err != nil {
			fmt.Fprintf(stderr, "orizuru: %v\n", err)
			return 1
		}
		total := source

		fmt.Fprintf(stdout, "%s:\n", q)
		fmt.Fprintf(stdout, "  source: %d\n", source)
		for _, id := range ids {
			processing, err := tr.Len(ctx, qkey(prefix, q, "processing", id))
			if err != nil {
				fmt.Fprintf(stderr, "orizuru: %v\n", err)
				return 1
			}
			unack, err := tr.Len(ctx, qkey(prefix, q, "unack", id))
			if err != nil {
				fmt.Fprintf(stderr, "orizuru: %v\n", err)
				return 1
			}
			total += processing + unack

			state := "down"
			if alive[id] {
				state = "alive"
			}
			fmt.Fprintf(stdout, "  %s: processing %d, unack %d (%s)\n", id, processing, unack, state)
		}
		fmt.Fprintf(stdout, "  total: %d\n", total)
	}
	return 0
}

// qkey joins key parts with the same separator the queue uses, so stat can
// inspect depths without claiming anything.
func qkey(parts ...string) string {
	return strings.Join(parts, ":")
}
