package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RateLimiter implements a token bucket rate limiter guarding the webhook
// against message floods from the gateway
type RateLimiter struct {
	tokens     int
	maxTokens  int
	refillRate time.Duration
	lastRefill time.Time
	mutex      sync.Mutex
	logger     *zap.Logger
}

// NewRateLimiter creates a new token bucket rate limiter
func NewRateLimiter(maxTokens int, refillRate time.Duration, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
		logger:     logger,
	}
}

// Allow checks if a request should be allowed based on rate limiting
func (rl *RateLimiter) Allow(ctx context.Context, operation string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	// Refill tokens based on time elapsed
	now := time.Now()
	elapsed := now.Sub(rl.lastRefill)

	tokensToAdd := int(elapsed / rl.refillRate)
	if tokensToAdd > 0 {
		rl.tokens += tokensToAdd
		if rl.tokens > rl.maxTokens {
			rl.tokens = rl.maxTokens
		}
		rl.lastRefill = now
	}

	if rl.tokens > 0 {
		rl.tokens--
		return true
	}

	rl.logger.Warn("rate limiter rejected request",
		zap.String("operation", operation),
		zap.Int("max_tokens", rl.maxTokens))
	return false
}

// Status returns the current and maximum token counts
func (rl *RateLimiter) Status() (int, int) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	return rl.tokens, rl.maxTokens
}
