package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiterEnforcesLimit(t *testing.T) {
	l := NewLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1"), "hit %d should pass", i+1)
	}
	assert.False(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l := NewLimiter(1, time.Minute)

	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))
}

func TestLimiterWindowSlides(t *testing.T) {
	current := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	l := NewLimiter(2, time.Minute).WithClock(func() time.Time { return current })

	assert.True(t, l.Allow("k"))
	assert.True(t, l.Allow("k"))
	assert.False(t, l.Allow("k"))

	// Half a window later the early hits still count.
	current = current.Add(30 * time.Second)
	assert.False(t, l.Allow("k"))

	// Once the first hits age out, capacity frees up again.
	current = current.Add(31 * time.Second)
	assert.True(t, l.Allow("k"))
}

func TestLimiterReset(t *testing.T) {
	l := NewLimiter(1, time.Minute)

	assert.True(t, l.Allow("k"))
	assert.False(t, l.Allow("k"))

	l.Reset()
	assert.True(t, l.Allow("k"))
}
