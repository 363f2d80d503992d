package httpmiddleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimitConfig configures the sliding window rate limiter.
type RateLimitConfig struct {
	// Max is the number of requests allowed per window. Zero disables limiting.
	Max int
	// Window is the length of one window.
	Window time.Duration
	// KeyFunc extracts the client key. Defaults to the client IP.
	KeyFunc func(*http.Request) string
}

// window holds the counts of the current and the previous fixed window; the
// previous count is weighted by its overlap with the sliding window.
type window struct {
	start     time.Time
	count     float64
	prevCount float64
}

// RateLimiter enforces a per-client sliding window limit.
type RateLimiter struct {
	cfg RateLimitConfig
	now func() time.Time

	mu      sync.Mutex
	clients map[string]*window
}

// NewRateLimiter creates a RateLimiter.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = ClientIP
	}
	return &RateLimiter{
		cfg:     cfg,
		now:     time.Now,
		clients: make(map[string]*window),
	}
}

// take records one request for key. It reports whether the request is allowed,
// how many requests remain and when the current window ends.
func (l *RateLimiter) take(key string) (allowed bool, remaining int, reset time.Time) {
	now := l.now()
	size := l.cfg.Window

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.clients[key]
	if !ok {
		w = &window{start: now.Truncate(size)}
		l.clients[key] = w
	}
	if elapsed := now.Sub(w.start); elapsed >= size {
		if elapsed < 2*size {
			w.prevCount = w.count
		} else {
			w.prevCount = 0
		}
		w.count = 0
		w.start = now.Truncate(size)
	}

	overlap := max(0, 1-now.Sub(w.start).Seconds()/size.Seconds())
	used := w.prevCount*overlap + w.count
	reset = w.start.Add(size)
	if used >= float64(l.cfg.Max) {
		return false, 0, reset
	}
	w.count++
	return true, max(0, int(float64(l.cfg.Max)-used-1)), reset
}

// Sweep drops clients idle for two windows or more.
func (l *RateLimiter) Sweep() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, w := range l.clients {
		if now.Sub(w.start) >= 2*l.cfg.Window {
			delete(l.clients, key)
		}
	}
}

// Run sweeps idle clients every two windows until ctx is cancelled.
func (l *RateLimiter) Run(ctx context.Context) error {
	if l.cfg.Max <= 0 || l.cfg.Window <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(2 * l.cfg.Window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// Middleware rejects requests over the limit with 429 and sets the
// X-RateLimit-* headers on every response.
func (l *RateLimiter) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		if l.cfg.Max <= 0 || l.cfg.Window <= 0 {
			return next
		}
		limit := strconv.Itoa(l.cfg.Max)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, remaining, reset := l.take(l.cfg.KeyFunc(r))

			h := w.Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

			if !allowed {
				retry := max(0, reset.Sub(l.now()))
				h.Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the first X-Forwarded-For address, then X-Real-IP, then
// the host part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
