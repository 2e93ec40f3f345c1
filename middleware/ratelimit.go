package middleware

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"events-api/pkg/appenv"
	"events-api/types"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterEntry holds a rate limiter and the last time it was seen.
type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiterStore is a threadsafe store mapping client IPs to limiter entries.
// A background janitor removes stale entries to avoid unbounded memory growth.
type ipLimiterStore struct {
	mu         sync.Mutex
	entries    map[string]*limiterEntry
	staleAfter time.Duration
}

func newIPLimiterStore(staleAfter time.Duration) *ipLimiterStore {
	store := &ipLimiterStore{
		entries:    make(map[string]*limiterEntry),
		staleAfter: staleAfter,
	}
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			store.cleanup()
		}
	}()
	return store
}

func (s *ipLimiterStore) getOrCreate(key string, r rate.Limit, burst int) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		e.lastSeen = time.Now()
		return e.limiter
	}
	lim := rate.NewLimiter(r, burst)
	s.entries[key] = &limiterEntry{limiter: lim, lastSeen: time.Now()}
	return lim
}

func (s *ipLimiterStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-s.staleAfter)
	for k, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// parseEnvRate reads RATE_LIMIT_RPS and RATE_LIMIT_BURST from environment or
// returns defaults.
func parseEnvRate() (rate.Limit, int) {
	rps := 5.0
	burst := 20
	if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			rps = f
		}
	}
	if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			burst = i
		}
	}
	return rate.Limit(rps), burst
}

// isDisabled returns true when rate limiting should be off, e.g. for tests.
func isDisabled() bool {
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED"))); v == "0" || v == "false" || v == "no" {
		return true
	}
	return appenv.IsTest()
}

// RateLimitMiddleware performs per-IP token bucket limiting. It skips
// preflight (OPTIONS) and the /health endpoint. Configure via env:
// RATE_LIMIT_ENABLED (bool, default true), RATE_LIMIT_RPS (float, default 5),
// RATE_LIMIT_BURST (int, default 20).
func RateLimitMiddleware() gin.HandlerFunc {
	if isDisabled() {
		return func(c *gin.Context) { c.Next() }
	}

	r, burst := parseEnvRate()
	store := newIPLimiterStore(10 * time.Minute)

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || c.Request.URL.Path == "/health" {
			c.Next()
			return
		}
		lim := store.getOrCreate("ip:"+c.ClientIP(), r, burst)
		if !lim.Allow() {
			c.Header("Retry-After", "1")
			c.JSON(http.StatusTooManyRequests, types.NewErrorResponse("RATE_LIMIT_EXCEEDED", "Too many requests"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimitSubmitMiddleware applies a stricter per-IP limit to the
// registration-submit and token endpoints. It is independent from the global
// limiter so bulk sign-up abuse cannot ride on the general allowance.
func RateLimitSubmitMiddleware() gin.HandlerFunc {
	if isDisabled() {
		return func(c *gin.Context) { c.Next() }
	}
	r := rate.Limit(1.0)
	burst := 5
	store := newIPLimiterStore(10 * time.Minute)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		lim := store.getOrCreate("submit:"+c.ClientIP(), r, burst)
		if !lim.Allow() {
			c.Header("Retry-After", "1")
			c.JSON(http.StatusTooManyRequests, types.NewErrorResponse("RATE_LIMIT_EXCEEDED", "Too many requests"))
			c.Abort()
			return
		}
		c.Next()
	}
}
