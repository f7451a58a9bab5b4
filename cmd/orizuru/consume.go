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
)

func defaultConsumerID() string {
	if host, err := os.Hostname(); err == nil && host != "" {
		return "cli-" + host
	}
	return "cli"
}

func runConsume(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("consume", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to the orizuru config file (required)")
	queue := fs.String("queue", "", "Queue to consume from (required)")
	consumerID := fs.String("consumer", defaultConsumerID(), "Consumer id")
	timeout := fs.Duration("timeout", 5*time.Second, "How long to wait for each message")
	follow := fs.Bool("follow", false, "Keep waiting after the queue drains")
	fs.Usage = func() {
		fmt.Fprintln(stderr, `Usage: orizuru consume --config <file> --queue <name> [flags]

Claim messages from the queue, print each payload on its own line and
acknowledge it. Exits once the queue stays empty for the wait timeout,
or keeps waiting with --follow. Interrupt with ctrl-c to stop cleanly.

Flags:`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *configPath == "" || *queue == "" {
		fs.Usage()
		return 1
	}
	if *timeout <= 0 {
		fmt.Fprintf(stderr, "orizuru: timeout must be positive; got %s\n", *timeout)
		return 1
	}

	cfg, err := orizuru.LoadConfigFile(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "orizuru: %v\n", err)
		return 1
	}
	tr, err := orizuru.NewRedisTransport(cfg.RedisOptions()...)
	if err != nil {
		fmt.Fprintf(stderr, "orizuru: %v\n", err)
		return 1
	}
	defer tr.Close()

	c, err := orizuru.NewConsumer(*queue, *consumerID, tr, orizuru.RawCodec{}, orizuru.WithPrefix(cfg.Prefix()))
	if err != nil {
		fmt.Fprintf(stderr, "orizuru: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := c.Register(ctx); err != nil {
		fmt.Fprintf(stderr, "orizuru: registering consumer: %v\n", err)
		return 1
	}
	defer func() {
		// The signal context may already be cancelled; deregister on a
		// short fresh one.
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := c.Stop(sctx); err != nil {
			fmt.Fprintf(stderr, "orizuru: stopping consumer: %v\n", err)
		}
	}()

	var consumed int
	for {
		if _, err := c.Heartbeat(ctx, 3*(*timeout)); err != nil {
			if ctx.Err() != nil {
				break
			}
			fmt.Fprintf(stderr, "orizuru: heartbeat: %v\n", err)
			return 1
		}

		d, err := c.NextTimeout(ctx, *timeout)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			fmt.Fprintf(stderr, "orizuru: next: %v\n", err)
			return 1
		}
		if d == nil {
			if *follow {
				continue
			}
			break
		}

		fmt.Fprintf(stdout, "%s\n", d.Bytes())
		if err := d.Ack(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			fmt.Fprintf(stderr, "orizuru: ack: %v\n", err)
			return 1
		}
		consumed++
	}

	fmt.Fprintf(stdout, "Consumed %d message(s) from %q\n", consumed, *queue)
	return 0
}
