package ratelimit

import (
	"context"
	"sync"
	"time"
)

// RateLimiter throttles outgoing requests to one endpoint class.
type RateLimiter interface {
	Wait(ctx context.Context) error
	Allow() bool
	GetRemaining() int
	GetResetTime() time.Time
}

// TokenBucket refills at a fixed rate and allows bursts up to capacity.
type TokenBucket struct {
	capacity   int
	tokens     int
	refillRate int // tokens per second
	windowSize time.Duration
	lastRefill time.Time
	mu         sync.Mutex
}

func NewTokenBucket(capacity, refillRate int, windowSize time.Duration) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		tokens:     capacity,
		refillRate: refillRate,
		windowSize: windowSize,
		lastRefill: time.Now(),
	}
}

func (tb *TokenBucket) refill() {
	now := time.Now()
	elapsed := now.Sub(tb.lastRefill)
	tokensToAdd := int(elapsed.Seconds()) * tb.refillRate
	if tokensToAdd > 0 {
		tb.tokens = min(tb.capacity, tb.tokens+tokensToAdd)
		tb.lastRefill = now
	}
}

func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.refill()
	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

func (tb *TokenBucket) Wait(ctx context.Context) error {
	for {
		if tb.Allow() {
			return nil
		}
		tb.mu.Lock()
		tb.refill()
		waitTime := time.Duration(0)
		if tb.tokens == 0 && tb.refillRate > 0 {
			waitTime = time.Second / time.Duration(tb.refillRate)
		}
		tb.mu.Unlock()

		if waitTime <= 0 {
			waitTime = tb.windowSize
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}
}

func (tb *TokenBucket) GetRemaining() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.refill()
	return tb.tokens
}

func (tb *TokenBucket) GetResetTime() time.Time {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.refill()
	if tb.tokens < tb.capacity && tb.refillRate > 0 {
		needed := tb.capacity - tb.tokens
		seconds := float64(needed) / float64(tb.refillRate)
		return time.Now().Add(time.Duration(seconds * float64(time.Second)))
	}
	return time.Now()
}

// SlidingWindow caps the number of requests inside a rolling window.
type SlidingWindow struct {
	limit      int
	windowSize time.Duration
	requests   []time.Time
	mu         sync.Mutex
}

func NewSlidingWindow(limit int, windowSize time.Duration) *SlidingWindow {
	return &SlidingWindow{
		limit:      limit,
		windowSize: windowSize,
		requests:   make([]time.Time, 0),
	}
}

func (sw *SlidingWindow) Allow() bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-sw.windowSize)

	valid := sw.requests[:0]
	for _, req := range sw.requests {
		if req.After(cutoff) {
			valid = append(valid, req)
		}
	}
	sw.requests = valid

	if len(sw.requests) >= sw.limit {
		return false
	}
	sw.requests = append(sw.requests, now)
	return true
}

func (sw *SlidingWindow) Wait(ctx context.Context) error {
	for {
		if sw.Allow() {
			return nil
		}
		sw.mu.Lock()
		oldest := time.Now()
		if len(sw.requests) > 0 {
			oldest = sw.requests[0]
		}
		waitTime := sw.windowSize - time.Since(oldest)
		sw.mu.Unlock()

		if waitTime <= 0 {
			waitTime = 100 * time.Millisecond
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}
}

func (sw *SlidingWindow) GetRemaining() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	cutoff := time.Now().Add(-sw.windowSize)
	validCount := 0
	for _, req := range sw.requests {
		if req.After(cutoff) {
			validCount++
		}
	}
	return max(0, sw.limit-validCount)
}

func (sw *SlidingWindow) GetResetTime() time.Time {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if len(sw.requests) == 0 {
		return time.Now()
	}
	return sw.requests[0].Add(sw.windowSize)
}

// Manager holds one limiter per endpoint class and hands out a default
// for anything unregistered.
type Manager struct {
	limiters map[string]RateLimiter
	mu       sync.RWMutex
}

func NewManager() *Manager {
	m := &Manager{limiters: make(map[string]RateLimiter)}
	m.initDefaultLimiters()
	return m
}

// initDefaultLimiters registers the entry and market service budgets.
func (m *Manager) initDefaultLimiters() {
	m.limiters["entry:order:post"] = NewTokenBucket(2400, 240, 10*time.Second)
	m.limiters["entry:order:delete"] = NewTokenBucket(2400, 240, 10*time.Second)
	m.limiters["entry:orders:get"] = NewSlidingWindow(150, 10*time.Second)
	m.limiters["entry:auth:post"] = NewSlidingWindow(30, 10*time.Second)
	m.limiters["market:markets:get"] = NewSlidingWindow(125, 10*time.Second)
}

func (m *Manager) GetLimiter(endpoint string) RateLimiter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limiter, exists := m.limiters[endpoint]; exists {
		return limiter
	}
	return NewSlidingWindow(5000, 10*time.Second)
}

// Register sets a custom limiter for an endpoint class.
func (m *Manager) Register(endpoint string, limiter RateLimiter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limiters[endpoint] = limiter
}

func (m *Manager) Wait(ctx context.Context, endpoint string) error {
	return m.GetLimiter(endpoint).Wait(ctx)
}

func (m *Manager) Allow(endpoint string) bool {
	return m.GetLimiter(endpoint).Allow()
}

func (m *Manager) GetRemaining(endpoint string) int {
	return m.GetLimiter(endpoint).GetRemaining()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
