// Package ratelimit provides an injected sliding-window counter service.
// State lives in the service instance, never in package globals, so tests
// can build and reset their own limiter.
package ratelimit

import (
	"sync"
	"time"
)

type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	hits    map[string][]time.Time
	now     func() time.Time
	lastGC  time.Time
	gcEvery time.Duration
}

// NewLimiter allows up to limit hits per key inside a sliding window.
func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		hits:    make(map[string][]time.Time),
		now:     time.Now,
		gcEvery: window,
	}
}

// WithClock replaces the clock; test helper.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Allow records a hit for key and reports whether it stays within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	recent := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.limit {
		l.hits[key] = recent
		return false
	}
	l.hits[key] = append(recent, now)

	if now.Sub(l.lastGC) > l.gcEvery {
		l.gc(cutoff)
		l.lastGC = now
	}
	return true
}

// Reset clears all counters; tests call it between cases.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hits = make(map[string][]time.Time)
}

func (l *Limiter) gc(cutoff time.Time) {
	for key, stamps := range l.hits {
		keep := stamps[:0]
		for _, t := range stamps {
			if t.After(cutoff) {
				keep = append(keep, t)
			}
		}
		if len(keep) == 0 {
			delete(l.hits, key)
			continue
		}
		l.hits[key] = keep
	}
}
