package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/phrazzld/stash-api/internal/api/shared"
	"github.com/phrazzld/stash-api/internal/config"
)

// RateLimiter applies a sliding-window request limit per client IP. State is
// in process memory: each client maps to the timestamps of its requests
// inside the current window, pruned on every hit. Counts therefore reset on
// restart and are not shared between instances.
type RateLimiter struct {
	maxRequests int
	window      time.Duration
	timeFunc    func() time.Time

	mu      sync.Mutex
	clients map[string][]time.Time
}

// NewRateLimiter creates a RateLimiter from configuration.
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		maxRequests: cfg.MaxRequests,
		window:      time.Duration(cfg.WindowSeconds) * time.Second,
		timeFunc:    time.Now,
		clients:     make(map[string][]time.Time),
	}
}

// allow records a hit for the client and reports whether it is within the
// limit, along with the wait until the oldest counted hit leaves the window.
func (l *RateLimiter) allow(client string) (bool, time.Duration) {
	now := l.timeFunc()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.clients[client][:0:len(l.clients[client])]
	for _, ts := range l.clients[client] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= l.maxRequests {
		l.clients[client] = recent
		return false, recent[0].Sub(cutoff)
	}

	l.clients[client] = append(recent, now)
	return true, 0
}

// Limit rejects requests beyond the configured rate with 429 and a
// Retry-After hint.
func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retryAfter := l.allow(clientIP(r))
		if !ok {
			seconds := int(retryAfter.Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests,
				"Too many requests", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP identifies the caller by remote address, without the port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
