// Package ratelimit keeps one token bucket per user for the AI endpoints.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type Config struct {
	RequestsPerMinute int
	Burst             int
	CleanupInterval   time.Duration
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	config   Config

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewRateLimiter starts a cleanup goroutine that drops limiters idle longer
// than CleanupInterval; call Stop to end it.
func NewRateLimiter(config Config) *RateLimiter {
	if config.Burst <= 0 {
		config.Burst = config.RequestsPerMinute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = time.Hour
	}

	rl := &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		config:   config,
		stopCh:   make(chan struct{}),
	}

	rl.wg.Add(1)
	go rl.cleanupLoop()

	return rl
}

func (rl *RateLimiter) Allow(userID string) bool {
	return rl.limiter(userID).Allow()
}

func (rl *RateLimiter) limiter(userID string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.limiters[userID]
	if !ok {
		perSecond := rate.Limit(float64(rl.config.RequestsPerMinute) / 60)
		entry = &limiterEntry{limiter: rate.NewLimiter(perSecond, rl.config.Burst)}
		rl.limiters[userID] = entry
	}
	entry.lastUsed = time.Now()
	return entry.limiter
}

func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-rl.config.CleanupInterval)
	for userID, entry := range rl.limiters {
		if entry.lastUsed.Before(cutoff) {
			delete(rl.limiters, userID)
		}
	}
}

func (rl *RateLimiter) cleanupLoop() {
	defer rl.wg.Done()

	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.Cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
	rl.wg.Wait()
}

func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}
