// ABOUTME: Retry helpers for outbound API calls with exponential backoff
// ABOUTME: Shared by the embedding client and grounding engine for consistent retry behavior
package util

import (
	"math/rand/v2"
	"time"
)

// maxBackoff bounds the delay between attempts regardless of how far the
// exponential curve has climbed.
const maxBackoff = 30 * time.Second

// CalculateBackoff returns exponential backoff with jitter
// Base delay is doubled each attempt, with random jitter up to 25%
func CalculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 || baseDelay <= 0 {
		return 0
	}
	// Cap attempt to avoid overflow in bit shift
	if attempt > 30 {
		attempt = 30
	}
	// Exponential: 2^attempt * base
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	// A large base can overflow the multiplication into negatives
	if backoff > maxBackoff || backoff <= 0 {
		backoff = maxBackoff
	}
	// Jitter: -25% to +25% using auto-seeded math/rand/v2
	jitter := time.Duration(rand.Int64N(int64(backoff)/2)) - backoff/4
	return backoff + jitter
}
