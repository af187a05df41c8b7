package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyPoolRotatesToLowestUsage(t *testing.T) {
	pool := NewKeyPool([]string{"key-aaaa", "key-bbbb"}, 0, 250)

	first, err := pool.Acquire(context.Background())
	assert.NoError(t, err)
	second, err := pool.Acquire(context.Background())
	assert.NoError(t, err)

	// With equal usage the pool alternates between credentials.
	assert.NotEqual(t, first, second)
}

func TestKeyPoolSkipsExhaustedCredential(t *testing.T) {
	pool := NewKeyPool([]string{"key-aaaa", "key-bbbb"}, 0, 250)

	pool.MarkExhausted("key-aaaa")

	for i := 0; i < 3; i++ {
		key, err := pool.Acquire(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, "key-bbbb", key)
	}
}

func TestKeyPoolAllExhaustedFailsImmediately(t *testing.T) {
	pool := NewKeyPool([]string{"key-aaaa", "key-bbbb"}, 0, 250)
	pool.MarkExhausted("key-aaaa")
	pool.MarkExhausted("key-bbbb")

	start := time.Now()
	_, err := pool.Acquire(context.Background())

	assert.ErrorIs(t, err, ErrNoCredentials)
	assert.Less(t, time.Since(start), time.Second)
}

func TestKeyPoolDailyLimit(t *testing.T) {
	pool := NewKeyPool([]string{"key-aaaa", "key-bbbb"}, 0, 1)

	_, err := pool.Acquire(context.Background())
	assert.NoError(t, err)
	_, err = pool.Acquire(context.Background())
	assert.NoError(t, err)

	_, err = pool.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestKeyPoolDailyRollover(t *testing.T) {
	current := time.Date(2026, 3, 10, 23, 50, 0, 0, time.UTC)
	pool := NewKeyPool([]string{"key-aaaa"}, 0, 1)
	pool.now = func() time.Time { return current }

	_, err := pool.Acquire(context.Background())
	assert.NoError(t, err)
	pool.MarkExhausted("key-aaaa")
	_, err = pool.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrNoCredentials)

	// Next calendar day clears both the counter and the exhausted flag.
	current = current.Add(time.Hour)
	key, err := pool.Acquire(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "key-aaaa", key)
}

func TestKeyPoolIntervalBlocksUntilContextCancel(t *testing.T) {
	current := time.Now()
	pool := NewKeyPool([]string{"key-aaaa"}, 2, 250)
	pool.now = func() time.Time { return current }

	_, err := pool.Acquire(context.Background())
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = pool.Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKeyPoolIntervalElapsed(t *testing.T) {
	current := time.Now()
	pool := NewKeyPool([]string{"key-aaaa"}, 2, 250)
	pool.now = func() time.Time { return current }

	_, err := pool.Acquire(context.Background())
	assert.NoError(t, err)

	current = current.Add(31 * time.Second)
	key, err := pool.Acquire(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "key-aaaa", key)
}

func TestKeyPoolCoolingBackoffDoublesAndResets(t *testing.T) {
	current := time.Now()
	pool := NewKeyPool([]string{"key-aaaa"}, 0, 250)
	pool.now = func() time.Time { return current }

	pool.MarkOverloaded()
	assert.Equal(t, current.Add(5*time.Second), pool.coolingUntil)

	pool.MarkOverloaded()
	assert.Equal(t, current.Add(10*time.Second), pool.coolingUntil)

	pool.MarkOverloaded()
	assert.Equal(t, current.Add(20*time.Second), pool.coolingUntil)

	pool.MarkSuccess("key-aaaa")
	pool.MarkOverloaded()
	assert.Equal(t, current.Add(5*time.Second), pool.coolingUntil)
}

func TestKeyPoolCoolingIsCapped(t *testing.T) {
	current := time.Now()
	pool := NewKeyPool([]string{"key-aaaa"}, 0, 250)
	pool.now = func() time.Time { return current }

	for i := 0; i < 10; i++ {
		pool.MarkOverloaded()
	}
	assert.Equal(t, current.Add(2*time.Minute), pool.coolingUntil)
}

func TestKeyPoolAvailable(t *testing.T) {
	pool := NewKeyPool([]string{"key-aaaa", "key-bbbb", "key-cccc"}, 0, 250)
	assert.Equal(t, 3, pool.Available())

	pool.MarkExhausted("key-bbbb")
	assert.Equal(t, 2, pool.Available())
}
