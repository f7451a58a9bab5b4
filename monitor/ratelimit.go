package monitor

import (
	"net"
	"net/http"
	"sync"
	"time"
)

const (
	defaultRateLimit   = 100 // requests per second per IP
	rateLimitBurstMult = 2   // burst = rate * multiplier
)

// rateLimiter is a per-IP token bucket limiter for the API endpoints.
type rateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*tokenBucket
	rate    float64 // tokens replenished per second
	burst   int     // maximum burst size
	stop    chan struct{}
}

type tokenBucket struct {
	tokens float64
	last   time.Time
}

// newRateLimiter creates a per-IP rate limiter. A background goroutine
// periodically drops stale entries so the bucket map cannot grow unbounded.
func newRateLimiter(rate int) *rateLimiter {
	if rate <= 0 {
		rate = defaultRateLimit
	}
	rl := &rateLimiter{
		buckets: make(map[string]*tokenBucket),
		rate:    float64(rate),
		burst:   rate * rateLimitBurstMult,
		stop:    make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// allow checks whether a request from the given IP is permitted.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[ip]
	if !ok {
		rl.buckets[ip] = &tokenBucket{tokens: float64(rl.burst) - 1, last: now}
		return true
	}

	b.tokens += now.Sub(b.last).Seconds() * rl.rate
	if b.tokens > float64(rl.burst) {
		b.tokens = float64(rl.burst)
	}
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// cleanup periodically removes buckets idle for 5+ minutes.
func (rl *rateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			cutoff := time.Now().Add(-5 * time.Minute)
			for ip, b := range rl.buckets {
				if b.last.Before(cutoff) {
					delete(rl.buckets, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// close stops the background cleanup goroutine.
func (rl *rateLimiter) close() {
	close(rl.stop)
}

// middleware rate-limits requests by client IP. Health checks are exempt so
// load balancer probes are never throttled away.
func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		if !rl.allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded", "RATE_LIMITED")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the IP address from an HTTP request's RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
