package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/rubik/orizuru"
)

// rejectOne claims a message as the given consumer and rejects it, leaving
// it parked in the consumer's unack queue.
func rejectOne(t *testing.T, tr *orizuru.RedisTransport, consumerID string) {
	t.Helper()
	ctx := context.Background()
	c, err := orizuru.NewConsumer("jobs", consumerID, tr, orizuru.RawCodec{}, orizuru.WithPrefix("clitest"))
	if err != nil {
		t.Fatal(err)
	}
	d, err := c.NextTimeout(ctx, 100*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if d == nil {
		t.Fatal("expected a message to claim")
	}
	if err := d.Reject(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestRunGC_Once(t *testing.T) {
	mr := miniredis.RunT(t)
	path := writeTestConfig(t, mr.Addr())
	tr := testTransport(t, mr.Addr())
	ctx := context.Background()

	seedJobs(t, tr, "alpha", "beta")
	rejectOne(t, tr, "w1")
	if n, _ := tr.Len(ctx, "clitest:jobs:unack:w1"); n != 1 {
		t.Fatalf("unack depth = %d, want 1 before the sweep", n)
	}

	var stdout, stderr bytes.Buffer
	code := runGC([]string{"--config", path, "--once"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0; stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), `queue "jobs": returned 1 message(s)`) {
		t.Errorf("stdout = %q", stdout.String())
	}

	if n, _ := tr.Len(ctx, "clitest:jobs:source"); n != 2 {
		t.Errorf("source depth = %d, want 2 after the sweep", n)
	}
	if n, _ := tr.Len(ctx, "clitest:jobs:unack:w1"); n != 0 {
		t.Errorf("unack depth = %d, want 0 after the sweep", n)
	}
}

func TestRunGC_OnceDiscoversRegistered(t *testing.T) {
	mr := miniredis.RunT(t)
	path := writeTestConfig(t, mr.Addr())
	tr := testTransport(t, mr.Addr())
	ctx := context.Background()

	// w9 is not in the config; only the registry knows it.
	seedJobs(t, tr, "alpha")
	c, err := orizuru.NewConsumer("jobs", "w9", tr, orizuru.RawCodec{}, orizuru.WithPrefix("clitest"))
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Register(ctx); err != nil {
		t.Fatal(err)
	}
	rejectOne(t, tr, "w9")

	var stdout, stderr bytes.Buffer
	code := runGC([]string{"--config", path, "--once"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0; stderr: %s", code, stderr.String())
	}

	if n, _ := tr.Len(ctx, "clitest:jobs:source"); n != 1 {
		t.Errorf("source depth = %d, want 1 after the sweep", n)
	}
}

func TestRunGC_NoQueues(t *testing.T) {
	path := writeMinimalConfig(t, t.TempDir())

	var stdout, stderr bytes.Buffer
	code := runGC([]string{"--config", path}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "no queues configured") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRunGC_MissingFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := runGC(nil, &stdout, &stderr); code != 1 {
		t.Error("missing --config should fail")
	}
}
