package ratelimit

import (
	"testing"
	"time"
)

func TestBurstThenDeny(t *testing.T) {
	limiter := NewInMemoryLimiter(1, time.Hour, 2)

	if !limiter.Allow("post-1") {
		t.Fatal("first action denied")
	}
	if !limiter.Allow("post-1") {
		t.Fatal("second action denied within burst")
	}
	if limiter.Allow("post-1") {
		t.Fatal("third action allowed past the burst")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	limiter := NewInMemoryLimiter(1, time.Hour, 1)

	if !limiter.Allow("post-1") {
		t.Fatal("post-1 denied")
	}
	if !limiter.Allow("post-2") {
		t.Fatal("post-2 throttled by post-1's limiter")
	}
}

func TestZeroConfigMeansUnlimited(t *testing.T) {
	limiter := NewInMemoryLimiter(0, 0, 0)

	for i := 0; i < 100; i++ {
		if !limiter.Allow("post-1") {
			t.Fatal("unlimited limiter denied an action")
		}
	}
}
