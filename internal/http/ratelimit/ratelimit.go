// Package ratelimit throttles requests per client IP with a token bucket.
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// idleTTL is how long an unused client bucket is kept.
	idleTTL = 10 * time.Minute
	// sweepInterval bounds how often idle buckets are looked for.
	sweepInterval = time.Minute
)

type peerKey struct{}

// Peer records the socket address of the connection before any middleware
// rewrites RemoteAddr from forwarding headers. It must run ahead of
// middleware.RealIP.
func Peer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), peerKey{}, r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type Limiter struct {
	mu        sync.Mutex
	clients   map[string]*client
	limit     rate.Limit
	burst     int
	now       func() time.Time
	lastSweep time.Time
}

// New allows perSecond requests per client with bursts of up to burst.
func New(perSecond float64, burst int) *Limiter {
	return &Limiter{
		clients: make(map[string]*client),
		limit:   rate.Limit(perSecond),
		burst:   burst,
		now:     time.Now,
	}
}

func (l *Limiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if now.Sub(l.lastSweep) >= sweepInterval {
		l.sweep(now)
		l.lastSweep = now
	}

	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}

	c.lastSeen = now

	return c.limiter.AllowN(now, 1)
}

func (l *Limiter) sweep(now time.Time) {
	for k, c := range l.clients {
		if now.Sub(c.lastSeen) > idleTTL {
			delete(l.clients, k)
		}
	}
}

func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "too many requests", http.StatusTooManyRequests)

			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP prefers the address recorded by Peer; forwarding headers are
// client controlled and never pick the bucket.
func clientIP(r *http.Request) string {
	addr, ok := r.Context().Value(peerKey{}).(string)
	if !ok {
		addr = r.RemoteAddr
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}

	return host
}
