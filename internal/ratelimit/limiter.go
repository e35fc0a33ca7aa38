package ratelimit

import (
	"sync"
	"time"
)

// Result reports the outcome of a single Allow call.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

type entry struct {
	count       int
	windowStart time.Time
}

type shard struct {
	sync.Mutex
	entries map[string]entry
}

// Limiter is a fixed-window request counter keyed by caller identity.
// Counts live in process memory, so limits apply per instance, not
// across a fleet.
type Limiter struct {
	shards []*shard
	limit  int
	window time.Duration
	clock  func() time.Time
	quit   chan struct{}
}

// New creates a limiter allowing limit calls per window, with 64 shards
// and a 1m sweep by default.
func New(limit int, window time.Duration) *Limiter {
	return NewWithOptions(limit, window, 64, time.Minute, time.Now)
}

// NewWithOptions allows customizing shard count, sweep interval and clock.
// The clock is injectable so window expiry can be tested without sleeping.
func NewWithOptions(limit int, window time.Duration, shardCount int, sweepInterval time.Duration, clock func() time.Time) *Limiter {
	l := &Limiter{
		shards: make([]*shard, shardCount),
		limit:  limit,
		window: window,
		clock:  clock,
		quit:   make(chan struct{}),
	}
	for i := 0; i < shardCount; i++ {
		l.shards[i] = &shard{entries: make(map[string]entry)}
	}
	go l.startSweeper(sweepInterval)
	return l
}

// Stop terminates the sweeper goroutine and releases resources.
func (l *Limiter) Stop() {
	select {
	case <-l.quit:
	default:
		close(l.quit)
	}
}

// Limit returns the configured calls-per-window ceiling.
func (l *Limiter) Limit() int {
	return l.limit
}

// Window returns the configured window length.
func (l *Limiter) Window() time.Duration {
	return l.window
}

func (l *Limiter) getShard(key string) *shard {
	h := fnv32(key)
	return l.shards[int(h)%len(l.shards)]
}

func fnv32(key string) uint32 {
	const offset = 2166136261
	const prime = 16777619
	h := uint32(offset)
	for i := 0; i < len(key); i++ {
		h ^= uint32(key[i])
		h *= prime
	}
	return h
}

// Allow records one attempt for key and reports whether it fits the
// window. The count resets once the window elapses; until then rejected
// calls carry the time remaining before the next attempt is accepted.
func (l *Limiter) Allow(key string) Result {
	now := l.clock()
	sh := l.getShard(key)

	sh.Lock()
	defer sh.Unlock()

	e, ok := sh.entries[key]
	if !ok || now.Sub(e.windowStart) >= l.window {
		sh.entries[key] = entry{count: 1, windowStart: now}
		return Result{Allowed: true, Remaining: l.limit - 1}
	}

	if e.count >= l.limit {
		return Result{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: l.window - now.Sub(e.windowStart),
		}
	}

	e.count++
	sh.entries[key] = e
	return Result{Allowed: true, Remaining: l.limit - e.count}
}

// Reset clears the counter for key.
func (l *Limiter) Reset(key string) {
	sh := l.getShard(key)
	sh.Lock()
	delete(sh.entries, key)
	sh.Unlock()
}

func (l *Limiter) startSweeper(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := l.clock()
			for _, sh := range l.shards {
				sh.Lock()
				for k, e := range sh.entries {
					if now.Sub(e.windowStart) >= l.window {
						delete(sh.entries, k)
					}
				}
				sh.Unlock()
			}
		case <-l.quit:
			return
		}
	}
}
