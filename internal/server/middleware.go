package server

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// clientLimiters tracks one token bucket per client address. Entries are
// never evicted; the client population of a single-dataset search service
// is small enough that this is not a concern.
type clientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func (c *clientLimiters) get(addr string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.limiters[addr]
	if !ok {
		l = rate.NewLimiter(c.limit, c.burst)
		c.limiters[addr] = l
	}
	return l
}

// RateLimit returns middleware enforcing a per-client request rate.
// Health endpoints are exempt so orchestrators are never throttled.
func RateLimit(perSecond float64, burst int) func(http.Handler) http.Handler {
	if burst <= 0 {
		burst = int(perSecond)
	}
	limiters := &clientLimiters{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			if !limiters.get(host).Allow() {
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
