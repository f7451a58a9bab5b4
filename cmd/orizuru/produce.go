package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rubik/orizuru"
)

// stdin is the source for messages when none are given as arguments. It is
// a variable so tests can substitute a canned reader.
var stdin io.Reader = os.Stdin

func runProduce(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("produce", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to the orizuru config file (required)")
	queue := fs.String("queue", "", "Queue to push onto (required)")
	count := fs.Int("count", 1, "Copies to push per message")
	fs.Usage = func() {
		fmt.Fprintln(stderr, `Usage: orizuru produce --config <file> --queue <name> [message ...]

Push each message argument onto the queue. With no message arguments,
messages are read from stdin, one per line.

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
	if *count < 1 {
		fmt.Fprintf(stderr, "orizuru: count must be at least 1; got %d\n", *count)
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

	producer, err := orizuru.NewProducer(*queue, tr, orizuru.RawCodec{}, orizuru.WithPrefix(cfg.Prefix()))
	if err != nil {
		fmt.Fprintf(stderr, "orizuru: %v\n", err)
		return 1
	}

	ctx := context.Background()
	var pushed int
	push := func(msg []byte) error {
		for i := 0; i < *count; i++ {
			if _, err := producer.Push(ctx, msg); err != nil {
				return err
			}
			pushed++
		}
		return nil
	}

	if fs.NArg() > 0 {
		for _, arg := range fs.Args() {
			if err := push([]byte(arg)); err != nil {
				fmt.Fprintf(stderr, "orizuru: push: %v\n", err)
				return 1
			}
		}
	} else {
		sc := bufio.NewScanner(stdin)
		sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for sc.Scan() {
			msg := append([]byte(nil), sc.Bytes()...)
			if err := push(msg); err != nil {
				fmt.Fprintf(stderr, "orizuru: push: %v\n", err)
				return 1
			}
		}
		if err := sc.Err(); err != nil {
			fmt.Fprintf(stderr, "orizuru: reading stdin: %v\n", err)
			return 1
		}
	}

	fmt.Fprintf(stdout, "Pushed %d message(s) to %q\n", pushed, *queue)
	return 0
}
