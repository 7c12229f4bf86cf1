package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a fixed-window hit counter keyed by caller identity.
type Limiter struct {
	mu      sync.Mutex
	hits    map[string][]time.Time
	window  time.Duration
	maxHits int
}

func NewLimiter(window time.Duration, maxHits int) *Limiter {
	return &Limiter{
		hits:    make(map[string][]time.Time),
		window:  window,
		maxHits: maxHits,
	}
}

// Allow records a hit for key and reports whether it stays under the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(key, time.Now())

	if len(l.hits[key]) >= l.maxHits {
		return false
	}

	l.hits[key] = append(l.hits[key], time.Now())
	return true
}

// Remaining reports how many hits key has left in the current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(key, time.Now())

	remaining := l.maxHits - len(l.hits[key])
	if remaining < 0 {
		return 0
	}
	return remaining
}

// prune drops hits that fell out of the window. Callers hold the mutex.
func (l *Limiter) prune(key string, now time.Time) {
	windowStart := now.Add(-l.window)

	if hits, exists := l.hits[key]; exists {
		valid := hits[:0]
		for _, hit := range hits {
			if hit.After(windowStart) {
				valid = append(valid, hit)
			}
		}
		l.hits[key] = valid
	}
}
