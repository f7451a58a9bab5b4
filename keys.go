package orizuru

// DefaultPrefix is the key prefix used when no other prefix is configured.
const DefaultPrefix = "orizuru"

// Key derivation for the three lists backing a logical queue, plus the
// registry and heartbeat keys. The formats are part of the wire contract:
// they must stay stable across releases or recovery of messages written by
// older processes breaks.

// sourceKey returns the shared source list for a queue.
// Format: {prefix}:{queue}:source
func sourceKey(prefix, queue string) string {
	return prefix + ":" + queue + ":source"
}

// processingKey returns the per-consumer processing list for a queue.
// Format: {prefix}:{queue}:processing:{consumer}
func processingKey(prefix, queue, consumer string) string {
	return prefix + ":" + queue + ":processing:" + consumer
}

// unackKey returns the per-consumer unack list for a queue.
// Format: {prefix}:{queue}:unack:{consumer}
func unackKey(prefix, queue, consumer string) string {
	return prefix + ":" + queue + ":unack:" + consumer
}

// consumersKey returns the set of registered consumer ids.
// Format: {prefix}:consumers
func consumersKey(prefix string) string {
	return prefix + ":consumers"
}

// heartbeatKey returns the per-consumer expiring heartbeat key.
// Format: {prefix}:heartbeat:{consumer}
func heartbeatKey(prefix, consumer string) string {
	return prefix + ":heartbeat:" + consumer
}

// heartbeatsKey returns the shared hash of consumer id to last heartbeat.
// Format: {prefix}:heartbeats
func heartbeatsKey(prefix string) string {
	return prefix + ":heartbeats"
}
