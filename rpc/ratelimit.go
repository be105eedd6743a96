package rpc

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

const (
	defaultMutationsPerSecond = 50
	defaultMutationBurst      = 100
)

// clientLimiter throttles mutating methods per client so a single
// misbehaving caller cannot starve the node of write capacity.
type clientLimiter struct {
	perSecond rate.Limit
	burst     int

	mu       sync.Mutex
	visitors map[string]*rate.Limiter
}

func newClientLimiter(perSecond float64, burst int) *clientLimiter {
	if perSecond <= 0 {
		perSecond = defaultMutationsPerSecond
	}
	if burst <= 0 {
		burst = defaultMutationBurst
	}
	return &clientLimiter{
		perSecond: rate.Limit(perSecond),
		burst:     burst,
		visitors:  make(map[string]*rate.Limiter),
	}
}

func (c *clientLimiter) allow(id string) bool {
	c.mu.Lock()
	limiter, ok := c.visitors[id]
	if !ok {
		limiter = rate.NewLimiter(c.perSecond, c.burst)
		c.visitors[id] = limiter
	}
	c.mu.Unlock()
	return limiter.Allow()
}

// clientAddr resolves the identity used for throttling. Proxy headers win
// over the socket address so a fronting gateway can pass through the real
// client.
func clientAddr(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if raw := r.Header.Get("X-Forwarded-For"); raw != "" {
		first := raw
		if comma := strings.IndexByte(raw, ','); comma >= 0 {
			first = raw[:comma]
		}
		if parsed := net.ParseIP(strings.TrimSpace(first)); parsed != nil {
			return parsed.String()
		}
		return raw
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
