package server

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	pruneInterval = 3 * time.Minute
	idleTimeout   = 10 * time.Minute
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter allows each client IP a fixed number of requests per window,
// with the whole allowance available as a burst.
type RateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*ipLimiter
	rate      rate.Limit
	interval  time.Duration
	burst     int
	lastPrune time.Time
	now       func() time.Time
}

func NewRateLimiter(perWindow int, window time.Duration) *RateLimiter {
	if perWindow < 1 {
		perWindow = 1
	}
	interval := window / time.Duration(perWindow)
	return &RateLimiter{
		limiters:  make(map[string]*ipLimiter),
		rate:      rate.Every(interval),
		interval:  interval,
		burst:     perWindow,
		lastPrune: time.Now(),
		now:       time.Now,
	}
}

// Allow reports whether ip may make another request now.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastPrune) > pruneInterval {
		for k, l := range rl.limiters {
			if now.Sub(l.lastSeen) > idleTimeout {
				delete(rl.limiters, k)
			}
		}
		rl.lastPrune = now
	}

	l, ok := rl.limiters[ip]
	if !ok {
		l = &ipLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[ip] = l
	}
	l.lastSeen = now
	return l.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Allow(c.RealIP()) {
				retryAfter := max(int(math.Ceil(rl.interval.Seconds())), 1)
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
