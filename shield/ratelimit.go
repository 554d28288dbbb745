package shield

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimitRule defines the rate limit for a single endpoint.
type RateLimitRule struct {
	MaxRequests   int
	WindowSeconds int
	Enabled       bool
}

// RateLimiterConfig configures a RateLimiter. Zero values fall back to
// defaults().
type RateLimiterConfig struct {
	// DB holds the rate_limits rules table. Required.
	DB *sql.DB
	// Store counts requests. Defaults to an in-memory store.
	Store CounterStore
	// ExcludePrefixes lists path prefixes never rate limited (pages, static
	// assets, health checks).
	ExcludePrefixes []string
	// Per-client defaults applied to every request in addition to endpoint
	// rules.
	ClientPerHour int
	ClientPerDay  int
	// ReloadEvery is the rule refresh interval.
	ReloadEvery time.Duration
}

func (c *RateLimiterConfig) defaults() {
	if c.Store == nil {
		c.Store = NewMemoryStore()
	}
	if c.ClientPerHour == 0 {
		c.ClientPerHour = 50
	}
	if c.ClientPerDay == 0 {
		c.ClientPerDay = 200
	}
	if c.ReloadEvery == 0 {
		c.ReloadEvery = 60 * time.Second
	}
}

// RateLimiter enforces per-IP, per-endpoint rate limits. Endpoint rules live
// in the rate_limits SQLite table and are reloaded periodically; counters go
// through the configured CounterStore. Clients also carry global hourly and
// daily caps independent of the endpoint.
type RateLimiter struct {
	cfg   RateLimiterConfig
	rules map[string]RateLimitRule
	mu    sync.RWMutex
}

// NewRateLimiter builds a rate limiter from cfg and performs an initial rule
// load. Call StartReloader for periodic refresh.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	cfg.defaults()
	rl := &RateLimiter{
		cfg:   cfg,
		rules: make(map[string]RateLimitRule),
	}
	rl.reload()
	return rl
}

// StartReloader refreshes rules every ReloadEvery and garbage-collects
// expired counters every 5 minutes. Stops when done is closed.
func (rl *RateLimiter) StartReloader(done <-chan struct{}) {
	reloadTick := time.NewTicker(rl.cfg.ReloadEvery)
	gcTick := time.NewTicker(5 * time.Minute)
	go func() {
		defer reloadTick.Stop()
		defer gcTick.Stop()
		for {
			select {
			case <-done:
				return
			case <-reloadTick.C:
				rl.reload()
			case <-gcTick.C:
				if gc, ok := rl.cfg.Store.(interface{ GC() }); ok {
					gc.GC()
				}
			}
		}
	}()
}

func (rl *RateLimiter) reload() {
	rows, err := rl.cfg.DB.Query(`SELECT endpoint, max_requests, window_seconds, enabled FROM rate_limits`)
	if err != nil {
		slog.Warn("ratelimit: failed to reload rules", "error", err)
		return
	}
	defer rows.Close()

	rules := make(map[string]RateLimitRule)
	for rows.Next() {
		var endpoint string
		var rule RateLimitRule
		var enabled int
		if err := rows.Scan(&endpoint, &rule.MaxRequests, &rule.WindowSeconds, &enabled); err != nil {
			continue
		}
		rule.Enabled = enabled == 1
		rules[endpoint] = rule
	}

	rl.mu.Lock()
	rl.rules = rules
	rl.mu.Unlock()

	slog.Debug("ratelimit: rules reloaded", "count", len(rules))
}

// allow checks the endpoint rule and the per-client hourly/daily caps.
func (rl *RateLimiter) allow(r *http.Request, ip, endpoint string) bool {
	ctx := r.Context()

	rl.mu.RLock()
	rule, ok := rl.rules[endpoint]
	rl.mu.RUnlock()

	if ok && rule.Enabled {
		window := time.Duration(rule.WindowSeconds) * time.Second
		count, err := rl.cfg.Store.Incr(ctx, ip+":"+endpoint, window)
		if err != nil {
			// Fail open: a broken counter store must not take the API down.
			slog.Warn("ratelimit: counter error", "error", err)
			return true
		}
		if count > rule.MaxRequests {
			return false
		}
	}

	hourly, err := rl.cfg.Store.Incr(ctx, ip+":hour", time.Hour)
	if err != nil {
		return true
	}
	if hourly > rl.cfg.ClientPerHour {
		return false
	}

	daily, err := rl.cfg.Store.Incr(ctx, ip+":day", 24*time.Hour)
	if err != nil {
		return true
	}
	return daily <= rl.cfg.ClientPerDay
}

// Middleware enforces rate limits and answers blocked requests with 429 JSON.
// Read-only requests (pages, static assets) pass through: every conversion
// operation is a POST.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}
		for _, prefix := range rl.cfg.ExcludePrefixes {
			if strings.HasPrefix(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}
		}

		endpoint := r.Method + " " + r.URL.Path
		ip := ExtractIP(r)

		if rl.allow(r, ip, endpoint) {
			next.ServeHTTP(w, r)
			return
		}

		GetLogger(r.Context()).Warn("ratelimit: request blocked", "ip", ip, "endpoint", endpoint)

		w.Header().Set("Retry-After", "60")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "rate limit exceeded",
		})
	})
}

// ExtractIP returns the client IP from X-Forwarded-For or RemoteAddr.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return strings.TrimSpace(xff[:i])
			}
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
