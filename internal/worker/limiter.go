package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter throttles analyzer process spawns, one bucket per analyzer binary
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new rate limiter. A non-positive rate disables limiting.
func NewLimiter(spawnsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	limit := rate.Limit(spawnsPerSecond)
	if spawnsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait blocks until the binary may be started again or ctx is done
func (l *Limiter) Wait(ctx context.Context, binary string) error {
	return l.getLimiter(binary).Wait(ctx)
}

// Allow reports whether a spawn may happen now, taking a token if so
func (l *Limiter) Allow(binary string) bool {
	return l.getLimiter(binary).Allow()
}

func (l *Limiter) getLimiter(binary string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[binary]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[binary]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[binary] = limiter

	return limiter
}
