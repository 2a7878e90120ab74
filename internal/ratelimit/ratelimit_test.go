package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		burst    int
		calls    int
		wantPass int
	}{
		{"burst allows initial requests", 3, 3, 3},
		{"exceeding burst blocks", 2, 5, 2},
		{"single token", 1, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			krl := New(0.001, tt.burst, time.Hour)
			defer krl.Stop()

			passed := 0
			for range tt.calls {
				if krl.Allow("client") {
					passed++
				}
			}
			assert.Equal(t, tt.wantPass, passed)
		})
	}
}

func TestKeyedRateLimiter_KeysAreIndependent(t *testing.T) {
	krl := New(0.001, 1, time.Hour)
	defer krl.Stop()

	assert.True(t, krl.Allow("10.0.0.1"))
	assert.False(t, krl.Allow("10.0.0.1"))
	assert.True(t, krl.Allow("10.0.0.2"))
	assert.Equal(t, 2, krl.Len())
}

func TestKeyedRateLimiter_Reserve(t *testing.T) {
	krl := New(1, 1, time.Hour)
	defer krl.Stop()

	ok, delay := krl.Reserve("client")
	assert.True(t, ok)
	assert.Zero(t, delay)

	ok, delay = krl.Reserve("client")
	assert.False(t, ok)
	assert.Greater(t, delay, time.Duration(0))
	assert.LessOrEqual(t, delay, time.Second)
}

func TestKeyedRateLimiter_Wait(t *testing.T) {
	krl := New(1000, 1, time.Hour)
	defer krl.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, krl.Wait(ctx, "client"))
	require.NoError(t, krl.Wait(ctx, "client"))
}

func TestKeyedRateLimiter_WaitCanceled(t *testing.T) {
	krl := New(0.001, 1, time.Hour)
	defer krl.Stop()

	require.True(t, krl.Allow("client"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, krl.Wait(ctx, "client"))
}

func TestKeyedRateLimiter_SweepEvictsIdle(t *testing.T) {
	krl := New(1, 1, time.Minute)
	defer krl.Stop()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	krl.now = func() time.Time { return now }

	krl.Allow("old")
	now = now.Add(2 * time.Minute)
	krl.Allow("fresh")

	krl.sweep()

	assert.Equal(t, 1, krl.Len())
	krl.mu.Lock()
	_, ok := krl.entries["fresh"]
	krl.mu.Unlock()
	assert.True(t, ok)
}

func TestKeyedRateLimiter_StopIsIdempotent(t *testing.T) {
	krl := New(1, 1, time.Hour)
	krl.Stop()
	krl.Stop()
}
