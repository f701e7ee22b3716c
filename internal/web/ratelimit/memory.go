package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenBucket is an in-memory limiter. Each key holds up to Limit tokens
// and refills at Limit tokens per Window.
type TokenBucket struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	window  time.Duration
	now     func() time.Time

	cleanup   *time.Ticker
	done      chan struct{}
	closeOnce sync.Once
}

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// NewTokenBucket creates a limiter and starts sweeping idle keys once per
// window. The caller must validate config.
func NewTokenBucket(config Config) *TokenBucket {
	tb := &TokenBucket{
		buckets: make(map[string]*bucket),
		limit:   config.Limit,
		window:  config.Window,
		now:     time.Now,
		cleanup: time.NewTicker(config.Window),
		done:    make(chan struct{}),
	}
	go tb.cleanupLoop()
	return tb
}

// Allow consumes a token for key
func (tb *TokenBucket) Allow(ctx context.Context, key string) (*Info, error) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()

	b, ok := tb.buckets[key]
	if !ok {
		b = &bucket{tokens: tb.limit, lastRefill: now}
		tb.buckets[key] = b
	}

	// tokens accrue in whole units; lastRefill only moves when one is added
	// so that slow trickles still add up
	if elapsed := now.Sub(b.lastRefill); elapsed > 0 {
		added := int(float64(tb.limit) * elapsed.Seconds() / tb.window.Seconds())
		if added > 0 {
			b.tokens = min(tb.limit, b.tokens+added)
			b.lastRefill = now
		}
	}

	info := &Info{
		Limit:   tb.limit,
		ResetAt: b.lastRefill.Add(tb.window),
	}
	if b.tokens > 0 {
		b.tokens--
		info.Allowed = true
	}
	info.Remaining = b.tokens
	return info, nil
}

func (tb *TokenBucket) cleanupLoop() {
	for {
		select {
		case <-tb.cleanup.C:
			tb.sweep()
		case <-tb.done:
			return
		}
	}
}

// sweep drops keys idle for two windows; they would be full again anyway
func (tb *TokenBucket) sweep() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	cutoff := tb.now().Add(-2 * tb.window)
	for key, b := range tb.buckets {
		if b.lastRefill.Before(cutoff) {
			delete(tb.buckets, key)
		}
	}
}

// Close stops the sweeper. It is safe to call more than once.
func (tb *TokenBucket) Close() error {
	tb.closeOnce.Do(func() {
		tb.cleanup.Stop()
		close(tb.done)
	})
	return nil
}
