package rate

import (
	"testing"
	"time"
)

func TestAllowEnforcesBurst(t *testing.T) {
	l := NewKeyLimiter(1, 2)
	if !l.Allow("10.0.0.1") || !l.Allow("10.0.0.1") {
		t.Fatalf("burst requests should pass")
	}
	if l.Allow("10.0.0.1") {
		t.Fatalf("third request within the burst window should be denied")
	}
	// Other keys have their own bucket.
	if !l.Allow("10.0.0.2") {
		t.Fatalf("fresh key should pass")
	}
}

func TestAllowPassthrough(t *testing.T) {
	var nilLimiter *KeyLimiter
	if !nilLimiter.Allow("10.0.0.1") {
		t.Fatalf("nil limiter must allow")
	}
	l := NewKeyLimiter(1, 1)
	if !l.Allow("") {
		t.Fatalf("empty key must allow")
	}
	if len(l.entries) != 0 {
		t.Fatalf("empty key must not create a bucket")
	}
}

func TestStaleBucketsEvicted(t *testing.T) {
	l := NewKeyLimiter(1, 1)
	l.Allow("10.0.0.1")
	l.Allow("10.0.0.2")

	// Age one bucket past the idle threshold and make the sweep due.
	l.mu.Lock()
	l.entries["10.0.0.1"].lastSeen = time.Now().Add(-staleAfter - time.Minute)
	l.lastCleanup = time.Now().Add(-cleanupInterval - time.Second)
	l.mu.Unlock()

	l.Allow("10.0.0.3")

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries["10.0.0.1"]; ok {
		t.Fatalf("stale bucket should have been evicted")
	}
	if _, ok := l.entries["10.0.0.2"]; !ok {
		t.Fatalf("recent bucket should survive the sweep")
	}
	if _, ok := l.entries["10.0.0.3"]; !ok {
		t.Fatalf("active bucket should be tracked")
	}
}
