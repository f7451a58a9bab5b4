package orizuru

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyFinalized is returned when a second finalization (Ack, Reject
	// or PushTo) is attempted on a Delivery whose first finalization succeeded.
	ErrAlreadyFinalized = errors.New("orizuru: message already finalized")

	// ErrConsumerStopped is returned by Next after Stop has been called.
	ErrConsumerStopped = errors.New("orizuru: consumer stopped")

	// ErrEncode is returned when a payload cannot be encoded. The push is
	// aborted before any transport call.
	ErrEncode = errors.New("orizuru: encode failed")

	// ErrInvalidQueueName is returned when a queue name contains characters
	// that would corrupt derived Redis keys.
	ErrInvalidQueueName = errors.New("orizuru: invalid queue name (only alphanumeric, hyphen, underscore, dot allowed; max 128 chars)")

	// ErrInvalidConsumerID is returned when a consumer id contains characters
	// that would corrupt derived Redis keys.
	ErrInvalidConsumerID = errors.New("orizuru: invalid consumer id (only alphanumeric, hyphen, underscore, dot allowed; max 128 chars)")

	// ErrRegistryUnsupported is returned when a registry operation is invoked
	// on a Transport that does not implement ConsumerRegistry.
	ErrRegistryUnsupported = errors.New("orizuru: transport does not support consumer registry")
)

// DecodeError is returned by Consumer.Next when fetched bytes cannot be
// decoded into the expected type. The entry has already been moved into the
// consumer's processing queue and stays there for inspection; it is never
// silently dropped.
type DecodeError struct {
	Queue    string
	Consumer string
	Payload  []byte
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("orizuru: decode failed on queue %q (consumer %q, %d bytes left in processing): %v",
		e.Queue, e.Consumer, len(e.Payload), e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
