package marriage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingRegistry_Resolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		accepted bool
	}{
		{name: "accepted", accepted: true},
		{name: "rejected", accepted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			registry := NewPendingRegistry()
			token, reply := registry.Open(42)

			go func() {
				time.Sleep(10 * time.Millisecond)
				assert.NoError(t, registry.Resolve(token, 42, tt.accepted))
			}()

			accepted, answered := registry.Await(context.Background(), token, reply, time.Second)
			assert.True(t, answered)
			assert.Equal(t, tt.accepted, accepted)
			assert.Equal(t, 0, registry.Len())
		})
	}
}

func TestPendingRegistry_WrongUser(t *testing.T) {
	t.Parallel()

	registry := NewPendingRegistry()
	token, reply := registry.Open(42)

	err := registry.Resolve(token, 7, true)
	assert.ErrorIs(t, err, ErrNotRecipient)

	// The request stays open for the real recipient
	require.NoError(t, registry.Resolve(token, 42, true))
	accepted, answered := registry.Await(context.Background(), token, reply, time.Second)
	assert.True(t, answered)
	assert.True(t, accepted)
	assert.ErrorIs(t, registry.Resolve(token, 42, false), ErrRequestExpired)
}

func TestPendingRegistry_Timeout(t *testing.T) {
	t.Parallel()

	registry := NewPendingRegistry()
	token, reply := registry.Open(42)

	start := time.Now()
	accepted, answered := registry.Await(context.Background(), token, reply, 20*time.Millisecond)

	assert.False(t, answered)
	assert.False(t, accepted)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Equal(t, 0, registry.Len())
	assert.ErrorIs(t, registry.Resolve(token, 42, true), ErrRequestExpired)
}

func TestPendingRegistry_UnknownToken(t *testing.T) {
	t.Parallel()

	registry := NewPendingRegistry()
	assert.ErrorIs(t, registry.Resolve("missing", 1, true), ErrRequestExpired)
}

func TestPendingRegistry_CancelledContext(t *testing.T) {
	t.Parallel()

	registry := NewPendingRegistry()
	token, reply := registry.Open(42)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, answered := registry.Await(ctx, token, reply, time.Minute)
	assert.False(t, answered)
	assert.Equal(t, 0, registry.Len())
}

func TestPendingRegistry_ConcurrentWaits(t *testing.T) {
	t.Parallel()

	registry := NewPendingRegistry()
	const waits = 20

	tokens := make([]string, waits)
	replies := make([]<-chan bool, waits)
	for n := range tokens {
		tokens[n], replies[n] = registry.Open(int64(n))
	}

	var wg sync.WaitGroup
	results := make([]bool, waits)
	for n, token := range tokens {
		wg.Add(1)
		go func(n int, token string) {
			defer wg.Done()
			accepted, answered := registry.Await(context.Background(), token, replies[n], time.Second)
			results[n] = answered && accepted == (n%2 == 0)
		}(n, token)
	}

	for n, token := range tokens {
		require.NoError(t, registry.Resolve(token, int64(n), n%2 == 0))
	}
	wg.Wait()

	for n, ok := range results {
		assert.True(t, ok, "wait %d", n)
	}
	assert.Equal(t, 0, registry.Len())
}
