package middleware

import (
	"testing"
	"time"
)

func TestRateLimiter_UserLimit(t *testing.T) {
	rl := NewRateLimiter(3, 100, time.Minute)
	userID := uint(1)

	for i := 0; i < 3; i++ {
		if !rl.CheckUserLimit(userID) {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	if rl.CheckUserLimit(userID) {
		t.Error("request over the limit should be denied")
	}

	if remaining := rl.GetUserRemaining(userID); remaining != 0 {
		t.Errorf("GetUserRemaining() = %d, want 0", remaining)
	}
}

func TestRateLimiter_IPLimit(t *testing.T) {
	rl := NewRateLimiter(100, 2, time.Minute)
	ip := "10.0.0.1"

	if !rl.CheckIPLimit(ip) || !rl.CheckIPLimit(ip) {
		t.Fatal("first two requests should be allowed")
	}

	if rl.CheckIPLimit(ip) {
		t.Error("third request should be denied")
	}

	// Other IPs are unaffected
	if !rl.CheckIPLimit("10.0.0.2") {
		t.Error("different IP should be allowed")
	}
}

func TestRateLimiter_WindowReset(t *testing.T) {
	rl := NewRateLimiter(1, 1, 10*time.Millisecond)
	userID := uint(1)

	if !rl.CheckUserLimit(userID) {
		t.Fatal("first request should be allowed")
	}
	if rl.CheckUserLimit(userID) {
		t.Fatal("second request should be denied")
	}

	time.Sleep(20 * time.Millisecond)

	if !rl.CheckUserLimit(userID) {
		t.Error("request after window reset should be allowed")
	}
}

func TestRateLimiter_Reset(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Minute)
	userID := uint(1)

	rl.CheckUserLimit(userID)
	rl.CheckIPLimit("10.0.0.1")

	rl.Reset()

	if !rl.CheckUserLimit(userID) {
		t.Error("user limit should be cleared after reset")
	}
	if !rl.CheckIPLimit("10.0.0.1") {
		t.Error("IP limit should be cleared after reset")
	}
}
