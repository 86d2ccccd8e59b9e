// Package ratelimit throttles forced store reads.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is a token bucket: up to maxTokens calls, one token back every
// refillInterval.
type Limiter struct {
	mu             sync.Mutex
	tokens         int
	maxTokens      int
	refillInterval time.Duration
	lastRefill     time.Time
	now            func() time.Time
}

// PerMinute spreads n tokens evenly over a minute, all available up front.
func PerMinute(n int) *Limiter {
	if n <= 0 {
		return nil
	}
	return New(n, time.Minute/time.Duration(n))
}

func New(maxTokens int, refillInterval time.Duration) *Limiter {
	return &Limiter{
		tokens:         maxTokens,
		maxTokens:      maxTokens,
		refillInterval: refillInterval,
		lastRefill:     time.Now(),
		now:            time.Now,
	}
}

// Allow takes a token if one is available without waiting.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refill()
	if l.tokens > 0 {
		l.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		if l.Allow() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.refillInterval):
		}
	}
}

func (l *Limiter) refill() {
	elapsed := l.now().Sub(l.lastRefill)
	newTokens := int(elapsed / l.refillInterval)
	if newTokens > 0 {
		l.tokens += newTokens
		if l.tokens > l.maxTokens {
			l.tokens = l.maxTokens
		}
		l.lastRefill = l.lastRefill.Add(time.Duration(newTokens) * l.refillInterval)
	}
}
