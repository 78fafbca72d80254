// Package ratelimit implements a per-client token bucket limiter.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// bucket tracks remaining tokens for one client.
type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// Limiter grants up to rate requests per window per client key, refilling
// continuously. Idle buckets are evicted by a background sweep.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    float64
	window  time.Duration
}

// New creates a Limiter allowing rate requests per window and starts its
// eviction loop, which runs until ctx is cancelled.
func New(ctx context.Context, rate int, window time.Duration) *Limiter {
	l := &Limiter{
		buckets: make(map[string]*bucket),
		rate:    float64(rate),
		window:  window,
	}
	go l.sweep(ctx)
	return l
}

// Allow reports whether the client identified by key may proceed, consuming
// one token if so.
func (l *Limiter) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		l.buckets[key] = &bucket{tokens: l.rate - 1, lastSeen: now}
		return true
	}

	refill := now.Sub(b.lastSeen).Seconds() / l.window.Seconds() * l.rate
	b.tokens += refill
	if b.tokens > l.rate {
		b.tokens = l.rate
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweep drops buckets idle for more than two windows.
func (l *Limiter) sweep(ctx context.Context) {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.mu.Lock()
			for key, b := range l.buckets {
				if now.Sub(b.lastSeen) > 2*l.window {
					delete(l.buckets, key)
				}
			}
			l.mu.Unlock()
		}
	}
}
