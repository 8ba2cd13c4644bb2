package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllow_BurstThenBlock(t *testing.T) {
	rl := New(1, 3)
	defer rl.Stop()

	passed := 0
	for range 5 {
		if rl.Allow("login:1.2.3.4") {
			passed++
		}
	}
	assert.Equal(t, 3, passed)
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	rl := New(1, 1)
	defer rl.Stop()

	assert.True(t, rl.Allow("ip-a"))
	assert.False(t, rl.Allow("ip-a"))
	assert.True(t, rl.Allow("ip-b"))
}

func TestWait_CancelledContext(t *testing.T) {
	rl := New(0.001, 1)
	defer rl.Stop()

	// Drain the burst so Wait would actually have to wait.
	assert.True(t, rl.Allow("key"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx, "key")
	assert.Error(t, err)
}
