package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/nexushr/hrms-backend-go/internal/domain/user"
	"github.com/nexushr/hrms-backend-go/internal/handler/http/response"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

// clientLimiter stores one token bucket per client.
type clientLimiter struct {
	limiters map[string]*limiterEntry
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiter(r rate.Limit, burst int) *clientLimiter {
	return &clientLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     r,
		burst:    burst,
		now:      time.Now,
	}
}

func (cl *clientLimiter) allow(key string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := cl.now()
	cl.sweep(now)

	entry, exists := cl.limiters[key]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(cl.rate, cl.burst)}
		cl.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// sweep drops clients idle for longer than limiterIdleTTL. Callers hold mu.
func (cl *clientLimiter) sweep(now time.Time) {
	for key, entry := range cl.limiters {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(cl.limiters, key)
		}
	}
}

// RateLimit limits requests per caller, keyed by user id when authenticated and by
// remote address otherwise. perMinute is the sustained rate, burst the bucket size.
func RateLimit(perMinute, burst int) func(http.Handler) http.Handler {
	cl := newClientLimiter(rate.Limit(float64(perMinute)/60), burst)
	retryAfter := strconv.Itoa(int((time.Minute / time.Duration(perMinute)).Seconds()) + 1)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cl.allow(clientKey(r)) {
				w.Header().Set("Retry-After", retryAfter)
				response.TooManyRequests(w, "Too many requests. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if caller, err := user.IdentityFromContext(r.Context()); err == nil {
		return "user:" + caller.UserID
	}
	// RemoteAddr is already rewritten by chi's RealIP middleware.
	return "ip:" + r.RemoteAddr
}
