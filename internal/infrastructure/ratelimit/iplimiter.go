package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const idleLimiterTTL = 10 * time.Minute

type ipEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPLimiterPool hands out one token bucket per client IP and forgets IPs
// that have been quiet for a while.
type IPLimiterPool struct {
	mu        sync.Mutex
	limiters  map[string]*ipEntry
	rps       rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func NewIPLimiterPool(rps float64, burst int) *IPLimiterPool {
	if burst <= 0 {
		burst = 1
	}
	return &IPLimiterPool{
		limiters: make(map[string]*ipEntry),
		rps:      rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

func (p *IPLimiterPool) Allow(ip string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if now.Sub(p.lastSweep) > idleLimiterTTL {
		for k, e := range p.limiters {
			if now.Sub(e.lastSeen) > idleLimiterTTL {
				delete(p.limiters, k)
			}
		}
		p.lastSweep = now
	}

	e, ok := p.limiters[ip]
	if !ok {
		e = &ipEntry{limiter: rate.NewLimiter(p.rps, p.burst)}
		p.limiters[ip] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// Size reports how many IPs are tracked.
func (p *IPLimiterPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.limiters)
}
