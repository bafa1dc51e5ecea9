package auth

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const cleanupInterval = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type IPRateLimiter struct {
	ips map[string]*visitor
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

// NewIPRateLimiter creates a limiter and starts the periodic cleanup of idle clients.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	i := &IPRateLimiter{
		ips: make(map[string]*visitor),
		r:   r,
		b:   b,
	}
	go func() {
		for {
			time.Sleep(cleanupInterval)
			i.cleanup(time.Now())
		}
	}()
	return i
}

func (i *IPRateLimiter) getLimiter(ip string, now time.Time) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	v, exists := i.ips[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// idleAfter is how long a client must be quiet for its bucket to be full again.
func (i *IPRateLimiter) idleAfter() time.Duration {
	idle := time.Minute
	if i.r > 0 {
		if refill := time.Duration(float64(i.b) / float64(i.r) * float64(time.Second)); refill > idle {
			idle = refill
		}
	}
	return idle
}

// cleanup drops clients whose bucket has refilled. A new limiter for them
// behaves the same as the dropped one.
func (i *IPRateLimiter) cleanup(now time.Time) {
	i.mu.Lock()
	defer i.mu.Unlock()

	idle := i.idleAfter()
	for ip, v := range i.ips {
		if now.Sub(v.lastSeen) > idle {
			delete(i.ips, ip)
		}
	}
}

func (i *IPRateLimiter) clients() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.ips)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// LimitMiddleware answers 429 once a client exceeds its token bucket.
func (i *IPRateLimiter) LimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := i.getLimiter(clientIP(r), time.Now())
		if !limiter.Allow() {
			retry := 1
			if i.r > 0 {
				retry = int(math.Ceil(1 / float64(i.r)))
			}
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			http.Error(w, "Too Many Requests. Try again later.", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
