package input

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// TestRateLimiterCooldown verifies back-to-back commands from one
// source are rejected until the cooldown passes.
func TestRateLimiterCooldown(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		MaxPerWindow:     100,
		WindowDuration:   time.Second,
		CooldownDuration: 50 * time.Millisecond,
	})

	if !rl.Allow("viewer") {
		t.Fatal("First command should be allowed")
	}
	if rl.Allow("viewer") {
		t.Error("Immediate second command should hit the cooldown")
	}

	time.Sleep(60 * time.Millisecond)
	if !rl.Allow("viewer") {
		t.Error("Command after the cooldown should be allowed")
	}
}

// TestRateLimiterWindowCap verifies the per-window budget.
func TestRateLimiterWindowCap(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		MaxPerWindow:   3,
		WindowDuration: time.Hour,
	})

	for i := 0; i < 3; i++ {
		if !rl.Allow("viewer") {
			t.Fatalf("Command %d should fit in the window", i+1)
		}
	}
	if rl.Allow("viewer") {
		t.Error("Fourth command should exceed the window budget")
	}
}

// TestRateLimiterWindowReset verifies the budget refills once the
// window rolls over.
func TestRateLimiterWindowReset(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		MaxPerWindow:   2,
		WindowDuration: 80 * time.Millisecond,
	})

	rl.Allow("viewer")
	rl.Allow("viewer")
	if rl.Allow("viewer") {
		t.Fatal("Third command should exceed the budget")
	}

	time.Sleep(100 * time.Millisecond)
	if !rl.Allow("viewer") {
		t.Error("Budget should reset after the window rolls over")
	}
}

// TestRateLimiterIndependentSources verifies one source exhausting its
// budget never affects another.
func TestRateLimiterIndependentSources(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		MaxPerWindow:   1,
		WindowDuration: time.Hour,
	})

	if !rl.Allow("alice") {
		t.Fatal("First command from alice should be allowed")
	}
	if rl.Allow("alice") {
		t.Error("Second command from alice should be rejected")
	}
	if !rl.Allow("bob") {
		t.Error("Bob's budget should be untouched")
	}
}

// TestRateLimiterConcurrentAccess verifies thread safety under parallel
// sources.
func TestRateLimiterConcurrentAccess(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		MaxPerWindow:   1000,
		WindowDuration: time.Hour,
	})

	var allowed atomic.Uint64
	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			source := fmt.Sprintf("viewer-%d", id)
			for i := 0; i < 100; i++ {
				if rl.Allow(source) {
					allowed.Add(1)
				}
			}
		}(g)
	}
	wg.Wait()

	if got := allowed.Load(); got != 1000 {
		t.Errorf("Expected all 1000 commands allowed, got %d", got)
	}
}
