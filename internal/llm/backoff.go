// ABOUTME: Exponential backoff with jitter for remote model retries
// ABOUTME: Base delay doubles each attempt, capped at 30 seconds
package llm

import (
	"math/rand/v2"
	"time"
)

// calculateBackoff returns exponential backoff with jitter
func calculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	// Cap attempt to avoid overflow in bit shift
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	// Jitter: -25% to +25%
	jitter := time.Duration(rand.Int64N(int64(backoff)/2)) - backoff/4
	return backoff + jitter
}
