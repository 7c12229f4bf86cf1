package ratelimit

import (
	"testing"
	"time"
)

func TestLimiter(t *testing.T) {
	t.Run("allows up to the limit", func(t *testing.T) {
		limiter := NewLimiter(time.Minute, 3)

		for i := 0; i < 3; i++ {
			if !limiter.Allow("client") {
				t.Fatalf("Hit %d should be allowed", i+1)
			}
		}
		if limiter.Allow("client") {
			t.Error("Hit over the limit should be denied")
		}
	})

	t.Run("keys are independent", func(t *testing.T) {
		limiter := NewLimiter(time.Minute, 1)

		if !limiter.Allow("a") {
			t.Error("First hit for a should be allowed")
		}
		if !limiter.Allow("b") {
			t.Error("First hit for b should be allowed")
		}
		if limiter.Allow("a") {
			t.Error("Second hit for a should be denied")
		}
	})

	t.Run("window expiry frees the key", func(t *testing.T) {
		limiter := NewLimiter(20*time.Millisecond, 1)

		if !limiter.Allow("client") {
			t.Fatal("First hit should be allowed")
		}
		if limiter.Allow("client") {
			t.Fatal("Second hit inside the window should be denied")
		}

		time.Sleep(30 * time.Millisecond)

		if !limiter.Allow("client") {
			t.Error("Hit after the window should be allowed")
		}
	})

	t.Run("remaining", func(t *testing.T) {
		limiter := NewLimiter(time.Minute, 2)

		if got := limiter.Remaining("client"); got != 2 {
			t.Errorf("Remaining() = %d, want 2", got)
		}
		limiter.Allow("client")
		if got := limiter.Remaining("client"); got != 1 {
			t.Errorf("Remaining() = %d, want 1", got)
		}
		limiter.Allow("client")
		limiter.Allow("client")
		if got := limiter.Remaining("client"); got != 0 {
			t.Errorf("Remaining() = %d, want 0", got)
		}
	})
}
