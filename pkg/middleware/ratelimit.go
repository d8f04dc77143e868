package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/JaimeStill/philatopia/pkg/lifecycle"
)

// RateLimiter keeps one token bucket per client address.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	rate     rate.Limit
	burst    int
	idle     time.Duration
	logger   *slog.Logger
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing cfg.Rate requests per second with
// bursts of cfg.Burst per client. Buckets idle longer than ten minutes are
// dropped by Sweep.
func NewRateLimiter(cfg *RateLimitConfig, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*visitor),
		rate:     rate.Limit(cfg.Rate),
		burst:    cfg.Burst,
		idle:     10 * time.Minute,
		logger:   logger,
	}
}

func (rl *RateLimiter) allow(key string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.limiters[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

// Sweep removes buckets not used since the idle window.
func (rl *RateLimiter) Sweep(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for key, v := range rl.limiters {
		if now.Sub(v.lastSeen) > rl.idle {
			delete(rl.limiters, key)
			removed++
		}
	}
	return removed
}

// Start sweeps idle buckets every interval until the coordinator shuts down.
func (rl *RateLimiter) Start(lc *lifecycle.Coordinator, interval time.Duration) {
	lc.OnShutdown(func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-lc.Context().Done():
				return
			case now := <-ticker.C:
				if n := rl.Sweep(now); n > 0 {
					rl.logger.Debug("rate limiter swept", "removed", n)
				}
			}
		}
	})
}

// Handler rejects requests over the limit with 429.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)

		if !rl.allow(key, time.Now()) {
			rl.logger.Warn("rate limit exceeded", "client", key, "path", r.URL.Path, "method", r.Method)

			retry := 1
			if rl.rate > 0 {
				retry = max(1, int(1/float64(rl.rate)))
			}
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"error":"too many requests"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// HandlerFunc adapts Handler for route tables built from http.HandlerFunc.
func (rl *RateLimiter) HandlerFunc(next http.HandlerFunc) http.HandlerFunc {
	return rl.Handler(next).ServeHTTP
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
