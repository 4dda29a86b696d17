// Package ratelimiter is a keyed token bucket limiter.
package ratelimiter

import (
	"sync"
	"time"
)

type bucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
	lastUsed   time.Time
}

// Limiter keeps one bucket per key. Buckets unused for idleTTL are dropped by
// the janitor started in New.
type Limiter struct {
	rate     float64 // tokens per second
	capacity float64
	idleTTL  time.Duration
	now      func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	stop     chan struct{}
	stopOnce sync.Once
}

func New(rate, capacity float64, idleTTL time.Duration) *Limiter {
	l := &Limiter{
		rate:     rate,
		capacity: capacity,
		idleTTL:  idleTTL,
		now:      time.Now,
		buckets:  make(map[string]*bucket),
		stop:     make(chan struct{}),
	}
	if idleTTL > 0 {
		go l.janitor()
	}
	return l
}

func (l *Limiter) getBucket(key string) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok {
		now := l.now()
		b = &bucket{tokens: l.capacity, lastRefill: now, lastUsed: now}
		l.buckets[key] = b
	}
	return b
}

// Allow takes a token from key's bucket.
func (l *Limiter) Allow(key string) bool {
	b := l.getBucket(key)

	b.mu.Lock()
	defer b.mu.Unlock()

	now := l.now()
	b.tokens += now.Sub(b.lastRefill).Seconds() * l.rate
	if b.tokens > l.capacity {
		b.tokens = l.capacity
	}
	b.lastRefill = now
	b.lastUsed = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Len is the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func (l *Limiter) evictIdle() {
	cutoff := l.now().Add(-l.idleTTL)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		b.mu.Lock()
		idle := b.lastUsed.Before(cutoff)
		b.mu.Unlock()
		if idle {
			delete(l.buckets, key)
		}
	}
}

func (l *Limiter) janitor() {
	ticker := time.NewTicker(l.idleTTL)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.evictIdle()
		case <-l.stop:
			return
		}
	}
}

// Stop ends the janitor. The limiter keeps working without it.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
