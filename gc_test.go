package orizuru

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"
)

// lenFailTransport fails length checks for one key, to simulate a sweep that
// breaks for a single consumer.
type lenFailTransport struct {
	Transport
	failKey string
}

func (f *lenFailTransport) Len(ctx context.Context, list string) (int64, error) {
	if list == f.failKey {
		return 0, errTransportDown
	}
	return f.Transport.Len(ctx, list)
}

func TestNewCollector_Invalid(t *testing.T) {
	rt, _ := testTransport(t)

	if _, err := NewCollector("bad queue", rt); !errors.Is(err, ErrInvalidQueueName) {
		t.Errorf("expected ErrInvalidQueueName, got %v", err)
	}
	if _, err := NewCollector("jobs", rt, WithConsumers("w:1")); !errors.Is(err, ErrInvalidConsumerID) {
		t.Errorf("expected ErrInvalidConsumerID, got %v", err)
	}
}

func TestCollector_EmptyUnack(t *testing.T) {
	rt, _ := testTransport(t)
	ctx := context.Background()

	g, err := NewCollector("jobs", rt, WithConsumers("w1"))
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	moved, err := g.CollectConsumer(ctx, "w1")
	if err != nil {
		t.Fatalf("collect consumer: %v", err)
	}
	if moved != 0 {
		t.Errorf("moved = %d from empty unack, want 0", moved)
	}

	moved, err = g.Collect(ctx)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if moved != 0 {
		t.Errorf("collect moved = %d, want 0", moved)
	}
}

func TestCollector_ReturnsRejectedMessages(t *testing.T) {
	rt, _ := testTransport(t)
	ctx := context.Background()
	task := testTask{ID: 9, Name: "send"}

	c, d := pushAndFetch(t, rt, "jobs", "w1", task)
	if err := d.Reject(ctx); err != nil {
		t.Fatalf("reject: %v", err)
	}

	g, err := NewCollector("jobs", rt, WithConsumers("w1"))
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	moved, err := g.Collect(ctx)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if moved != 1 {
		t.Errorf("moved = %d, want 1", moved)
	}
	if n := queueLen(t, rt, c.UnackQueue()); n != 0 {
		t.Errorf("unack length = %d after sweep, want 0", n)
	}
	if n := queueLen(t, rt, c.SourceQueue()); n != 1 {
		t.Errorf("source length = %d after sweep, want 1", n)
	}

	// The returned message is redelivered intact.
	d2, err := c.NextTimeout(ctx, time.Second)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if d2 == nil {
		t.Fatal("no redelivery after sweep")
	}
	if d2.Payload() != task {
		t.Errorf("redelivered payload = %+v, want %+v", d2.Payload(), task)
	}
}

func TestCollector_Idempotent(t *testing.T) {
	rt, _ := testTransport(t)
	ctx := context.Background()

	_, d := pushAndFetch(t, rt, "jobs", "w1", testTask{ID: 1})
	if err := d.Reject(ctx); err != nil {
		t.Fatalf("reject: %v", err)
	}

	g, err := NewCollector("jobs", rt, WithConsumers("w1"))
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	if moved, _ := g.Collect(ctx); moved != 1 {
		t.Fatalf("first sweep moved %d, want 1", moved)
	}
	moved, err := g.Collect(ctx)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if moved != 0 {
		t.Errorf("second sweep moved %d, want 0", moved)
	}
	if n := queueLen(t, rt, sourceKey(DefaultPrefix, "jobs")); n != 1 {
		t.Errorf("source length = %d, want 1", n)
	}
}

func TestCollector_MultipleConsumers(t *testing.T) {
	rt, _ := testTransport(t)
	ctx := context.Background()

	for i, id := range []string{"w1", "w1", "w2"} {
		_, d := pushAndFetch(t, rt, "jobs", id, testTask{ID: uint64(i + 1)})
		if err := d.Reject(ctx); err != nil {
			t.Fatalf("reject: %v", err)
		}
	}

	g, err := NewCollector("jobs", rt, WithConsumers("w1", "w2"))
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	moved, err := g.Collect(ctx)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if moved != 3 {
		t.Errorf("moved = %d, want 3", moved)
	}
	if n := queueLen(t, rt, sourceKey(DefaultPrefix, "jobs")); n != 3 {
		t.Errorf("source length = %d, want 3", n)
	}
}

func TestCollector_NeverTouchesProcessing(t *testing.T) {
	rt, _ := testTransport(t)
	ctx := context.Background()

	// A claimed but unfinalized message stays in processing across sweeps.
	c, _ := pushAndFetch(t, rt, "jobs", "w1", testTask{ID: 1})

	g, err := NewCollector("jobs", rt, WithConsumers("w1"))
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	moved, err := g.Collect(ctx)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if moved != 0 {
		t.Errorf("moved = %d, want 0", moved)
	}
	if n := queueLen(t, rt, c.ProcessingQueue()); n != 1 {
		t.Errorf("processing length = %d after sweep, want 1", n)
	}
	if n := queueLen(t, rt, c.SourceQueue()); n != 0 {
		t.Errorf("source length = %d after sweep, want 0", n)
	}
}

func TestCollector_RegistryDiscovery(t *testing.T) {
	rt, _ := testTransport(t)
	ctx := context.Background()

	c, d := pushAndFetch(t, rt, "jobs", "w1", testTask{ID: 1})
	if err := c.Register(ctx); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := d.Reject(ctx); err != nil {
		t.Fatalf("reject: %v", err)
	}

	// No configured ids; the registry alone names the consumer to sweep.
	g, err := NewCollector("jobs", rt, WithRegistryDiscovery())
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	moved, err := g.Collect(ctx)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if moved != 1 {
		t.Errorf("moved = %d, want 1", moved)
	}

	// Without discovery the same collector setup sees nothing.
	_, d2 := pushAndFetch(t, rt, "jobs", "w1", testTask{ID: 2})
	if err := d2.Reject(ctx); err != nil {
		t.Fatalf("reject: %v", err)
	}
	g2, err := NewCollector("jobs", rt)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	moved, err = g2.Collect(ctx)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if moved != 0 {
		t.Errorf("moved = %d without discovery, want 0", moved)
	}
}

func TestCollector_DeadConsumerRecovery(t *testing.T) {
	rt, _ := testTransport(t)
	ctx := context.Background()
	task := testTask{ID: 5, Name: "charge"}

	// w-dead rejects and never comes back.
	_, d := pushAndFetch(t, rt, "jobs", "w-dead", task)
	if err := d.Reject(ctx); err != nil {
		t.Fatalf("reject: %v", err)
	}

	// A collector configured with the dead id hands its work back.
	g, err := NewCollector("jobs", rt, WithConsumers("w-dead"))
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	if moved, _ := g.Collect(ctx); moved != 1 {
		t.Fatalf("moved = %d, want 1", moved)
	}

	c2, err := NewConsumer[testTask]("jobs", "w2", rt, MsgpackCodec[testTask]{})
	if err != nil {
		t.Fatalf("NewConsumer: %v", err)
	}
	d2, err := c2.NextTimeout(ctx, time.Second)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if d2 == nil || d2.Payload() != task {
		t.Fatalf("w2 did not receive the recovered message: %+v", d2)
	}
}

func TestCollector_SkipsFailingConsumer(t *testing.T) {
	rt, _ := testTransport(t)
	ctx := context.Background()

	_, d := pushAndFetch(t, rt, "jobs", "good", testTask{ID: 1})
	if err := d.Reject(ctx); err != nil {
		t.Fatalf("reject: %v", err)
	}

	broken := &lenFailTransport{
		Transport: rt,
		failKey:   unackKey(DefaultPrefix, "jobs", "bad"),
	}
	g, err := NewCollector("jobs", broken, WithConsumers("bad", "good"))
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	// The broken consumer is logged and skipped, the rest still sweeps.
	moved, err := g.Collect(ctx)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if moved != 1 {
		t.Errorf("moved = %d, want 1", moved)
	}
}

func TestCollector_Run(t *testing.T) {
	rt, _ := testTransport(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, d := pushAndFetch(t, rt, "jobs", "w1", testTask{ID: 1})
	if err := d.Reject(context.Background()); err != nil {
		t.Fatalf("reject: %v", err)
	}

	g, err := NewCollector("jobs", rt, WithConsumers("w1"), WithInterval(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		g.Run(ctx)
	}()

	deadline := time.After(2 * time.Second)
	for {
		if n := queueLen(t, rt, sourceKey(DefaultPrefix, "jobs")); n == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("collector never returned the rejected message")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on context cancellation")
	}
}

func TestRoundTrip_AckRejectPushTo(t *testing.T) {
	rt, _ := testTransport(t)
	ctx := context.Background()

	p, err := NewProducer[[]byte]("jobs", rt, RawCodec{})
	if err != nil {
		t.Fatalf("NewProducer: %v", err)
	}
	for _, payload := range []string{"a", "b", "c"} {
		if _, err := p.Push(ctx, []byte(payload)); err != nil {
			t.Fatalf("push %q: %v", payload, err)
		}
	}

	c, err := NewConsumer[[]byte]("jobs", "w1", rt, RawCodec{})
	if err != nil {
		t.Fatalf("NewConsumer: %v", err)
	}
	claim := func() *Delivery[[]byte] {
		d, err := c.NextTimeout(ctx, time.Second)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if d == nil {
			t.Fatal("next returned no delivery for a non-empty queue")
		}
		return d
	}

	// Oldest first: a, then b, then c.
	da, db, dc := claim(), claim(), claim()
	if string(da.Payload()) != "a" || string(db.Payload()) != "b" || string(dc.Payload()) != "c" {
		t.Fatalf("claim order = %q %q %q, want a b c", da.Payload(), db.Payload(), dc.Payload())
	}

	// a succeeds, b fails transiently, c moves to a retry queue.
	if err := da.Ack(ctx); err != nil {
		t.Fatalf("ack a: %v", err)
	}
	if err := db.Reject(ctx); err != nil {
		t.Fatalf("reject b: %v", err)
	}
	if err := dc.PushTo(ctx, "jobs.retry"); err != nil {
		t.Fatalf("push c to retry: %v", err)
	}

	if n := queueLen(t, rt, c.SourceQueue()); n != 0 {
		t.Errorf("source length = %d, want 0", n)
	}
	if n := queueLen(t, rt, c.ProcessingQueue()); n != 0 {
		t.Errorf("processing length = %d, want 0", n)
	}
	if n := queueLen(t, rt, c.UnackQueue()); n != 1 {
		t.Errorf("unack length = %d, want 1", n)
	}
	if n := queueLen(t, rt, sourceKey(DefaultPrefix, "jobs.retry")); n != 1 {
		t.Errorf("retry source length = %d, want 1", n)
	}

	// The sweep hands b back; a stays gone.
	g, err := NewCollector("jobs", rt, WithConsumers("w1"))
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	if moved, err := g.Collect(ctx); err != nil || moved != 1 {
		t.Fatalf("collect moved %d (%v), want 1", moved, err)
	}

	redelivered := claim()
	if string(redelivered.Payload()) != "b" {
		t.Fatalf("redelivered = %q, want b", redelivered.Payload())
	}
	if err := redelivered.Ack(ctx); err != nil {
		t.Fatalf("ack b: %v", err)
	}

	rc, err := NewConsumer[[]byte]("jobs.retry", "w1", rt, RawCodec{})
	if err != nil {
		t.Fatalf("NewConsumer retry: %v", err)
	}
	dr, err := rc.NextTimeout(ctx, time.Second)
	if err != nil {
		t.Fatalf("next retry: %v", err)
	}
	if dr == nil || string(dr.Payload()) != "c" {
		t.Fatalf("retry delivery = %v, want c", dr)
	}
	if err := dr.Ack(ctx); err != nil {
		t.Fatalf("ack c: %v", err)
	}

	// Everything drained, nothing reappears.
	if d, err := c.NextTimeout(ctx, 50*time.Millisecond); err != nil || d != nil {
		t.Errorf("jobs not empty after drain: d=%v err=%v", d, err)
	}
	if moved, _ := g.Collect(ctx); moved != 0 {
		t.Errorf("final sweep moved %d, want 0", moved)
	}
}

func TestCollector_Accessors(t *testing.T) {
	rt, _ := testTransport(t)

	g, err := NewCollector("jobs", rt, WithConsumers("w1", "w2"))
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	if g.Queue() != "jobs" {
		t.Errorf("Queue() = %q, want jobs", g.Queue())
	}

	ids := g.Consumers()
	if !slices.Equal(ids, []string{"w1", "w2"}) {
		t.Fatalf("Consumers() = %v, want [w1 w2]", ids)
	}
	// The returned slice is a copy.
	ids[0] = "mutated"
	if got := g.Consumers(); !slices.Equal(got, []string{"w1", "w2"}) {
		t.Errorf("Consumers() affected by caller mutation: %v", got)
	}
}
