package httpx

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateProfile names a request budget applied per client IP.
type RateProfile struct {
	Limit rate.Limit
	Burst int
}

// Profiles ordered strictest to loosest. Strict guards credential and
// login endpoints, Public covers health and discovery routes.
var (
	Strict   = RateProfile{Limit: rate.Every(2 * time.Second), Burst: 5}
	Moderate = RateProfile{Limit: rate.Every(500 * time.Millisecond), Burst: 10}
	Lenient  = RateProfile{Limit: rate.Every(100 * time.Millisecond), Burst: 30}
	Public   = RateProfile{Limit: rate.Every(50 * time.Millisecond), Burst: 60}
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter tracks per-IP token buckets for a single profile. Idle
// entries are evicted so the map stays bounded.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	profile  RateProfile
}

func NewRateLimiter(profile RateProfile) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		profile:  profile,
	}
	go rl.evictLoop()
	return rl
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.profile.Limit, rl.profile.Burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

func (rl *RateLimiter) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-10 * time.Minute)

		rl.mu.Lock()
		for ip, v := range rl.visitors {
			if v.lastSeen.Before(cutoff) {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// Middleware rejects over-budget requests with 429.
func (rl *RateLimiter) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.allow(clientIP(r)) {
				w.Header().Set("Retry-After", "1")
				writeAuthError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit is a convenience for one-off route wiring.
func RateLimit(profile RateProfile) Middleware {
	return NewRateLimiter(profile).Middleware()
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
