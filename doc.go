// Package orizuru provides a reliable at-least-once message queue on top of
// Redis list primitives.
//
// Messages travel through three lists per logical queue: a shared source
// list, a per-consumer processing list, and a per-consumer unack list.
// Consumers claim messages with a single atomic move from source to
// processing, so a message is delivered to exactly one consumer even under
// contention. Every delivery is wrapped in a guard that must be finalized
// exactly once with Ack, Reject, or PushTo. Rejected messages land in the
// consumer's unack list, from where a Collector sweep returns them to the
// source list for redelivery.
//
// Quick start:
//
//	transport, _ := orizuru.NewRedisTransport(orizuru.WithRedisAddr("localhost:6379"))
//	defer transport.Close()
//
//	codec := orizuru.MsgpackCodec[Task]{}
//
//	// Producer: push messages
//	producer, _ := orizuru.NewProducer("tasks", transport, codec)
//	producer.Push(ctx, Task{ID: 42})
//
//	// Consumer: fetch, process, finalize
//	consumer, _ := orizuru.NewConsumer("tasks", "worker-1", transport, codec)
//	msg, err := consumer.Next(ctx)
//	if err == nil && msg != nil {
//	    process(msg.Payload())
//	    msg.Ack(ctx)
//	}
//
//	// Recovery: return rejected messages to the source queue
//	gc, _ := orizuru.NewCollector("tasks", transport, orizuru.WithConsumers("worker-1"))
//	gc.Collect(ctx)
package orizuru
