// ABOUTME: Tests for exponential backoff used by embedding retries
// ABOUTME: Validates growth, bounds, and jitter behavior
package llm

import (
	"testing"
	"time"
)

func TestCalculateBackoff_ZeroAttempt(t *testing.T) {
	if got := calculateBackoff(time.Second, 0); got != 0 {
		t.Errorf("expected 0 for attempt 0, got %v", got)
	}
	if got := calculateBackoff(time.Second, -3); got != 0 {
		t.Errorf("expected 0 for negative attempt, got %v", got)
	}
}

func TestCalculateBackoff_ExponentialGrowth(t *testing.T) {
	baseDelay := 100 * time.Millisecond

	for attempt := 1; attempt <= 5; attempt++ {
		expectedBase := baseDelay * time.Duration(1<<uint(attempt))
		minExpected := expectedBase * 3 / 4
		maxExpected := expectedBase * 5 / 4

		result := calculateBackoff(baseDelay, attempt)

		if result < minExpected || result > maxExpected {
			t.Errorf("attempt %d: expected backoff between %v and %v, got %v",
				attempt, minExpected, maxExpected, result)
		}
	}
}

func TestCalculateBackoff_CapsAt30Seconds(t *testing.T) {
	maxAllowed := 37500 * time.Millisecond

	// Attempt 10 would give 2^10 * 1s = 1024s without the cap
	if got := calculateBackoff(time.Second, 10); got > maxAllowed {
		t.Errorf("expected backoff <= %v, got %v", maxAllowed, got)
	}

	// Very high attempt values must not overflow the shift
	got := calculateBackoff(time.Millisecond, 100)
	if got > maxAllowed || got < 0 {
		t.Errorf("expected backoff in [0, %v] for high attempt, got %v", maxAllowed, got)
	}
}

func TestCalculateBackoff_JitterVaries(t *testing.T) {
	allSame := true
	first := calculateBackoff(time.Second, 2)
	for i := 0; i < 100; i++ {
		r := calculateBackoff(time.Second, 2)
		if r != first {
			allSame = false
		}
		// 4s base with ±25% jitter
		if r < 3*time.Second || r > 5*time.Second {
			t.Errorf("sample %d: expected between 3s and 5s, got %v", i, r)
		}
	}
	if allSame {
		t.Error("jitter should produce varying results")
	}
}
