package rate

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	staleAfter      = 10 * time.Minute
	cleanupInterval = time.Minute
)

// KeyLimiter keeps one token bucket per key (typically a client IP).
// Buckets idle for staleAfter are swept periodically, so the map tracks
// recent clients rather than every client the process has ever seen.
type KeyLimiter struct {
	mu          sync.Mutex
	entries     map[string]*keyEntry
	rate        rate.Limit
	burst       int
	lastCleanup time.Time
}

type keyEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewKeyLimiter(rps float64, burst int) *KeyLimiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &KeyLimiter{
		entries:     make(map[string]*keyEntry),
		rate:        rate.Limit(rps),
		burst:       burst,
		lastCleanup: time.Now(),
	}
}

// Allow reports whether a request under the given key may proceed now.
func (l *KeyLimiter) Allow(key string) bool {
	if l == nil || key == "" {
		return true
	}
	now := time.Now()

	l.mu.Lock()
	l.maybeCleanup(now)
	entry, ok := l.entries[key]
	if !ok {
		entry = &keyEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.entries[key] = entry
	}
	entry.lastSeen = now
	l.mu.Unlock()

	return entry.limiter.Allow()
}

// maybeCleanup evicts idle buckets. Caller holds the mutex.
func (l *KeyLimiter) maybeCleanup(now time.Time) {
	if now.Sub(l.lastCleanup) < cleanupInterval {
		return
	}
	for key, entry := range l.entries {
		if now.Sub(entry.lastSeen) >= staleAfter {
			delete(l.entries, key)
		}
	}
	l.lastCleanup = now
}
