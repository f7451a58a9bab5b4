package orizuru

import "github.com/redis/go-redis/v9"

// pushAndRemoveScript backs RedisTransport.PushAndRemove: append the payload
// to the destination list and drop its first occurrence from the source list
// in one server-side step. Runs via EVALSHA with automatic EVAL fallback
// (redis.Script handles NOSCRIPT).
//
// KEYS[1] = destination list, KEYS[2] = source list, ARGV[1] = payload.
var pushAndRemoveScript = redis.NewScript(`
redis.call("LPUSH", KEYS[1], ARGV[1])
redis.call("LREM", KEYS[2], 1, ARGV[1])
return 1
`)
