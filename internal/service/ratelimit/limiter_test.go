package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestLimiter_BurstThenRefill(t *testing.T) {
	c := &clock{t: time.Unix(0, 0)}
	l := New(3, 1, WithClock(c.now))

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("1.2.3.4"), "request %d", i)
	}
	assert.False(t, l.Allow("1.2.3.4"))
	// other keys are independent
	assert.True(t, l.Allow("5.6.7.8"))

	c.t = c.t.Add(1500 * time.Millisecond)
	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"))
}

func TestLimiter_RefillCapped(t *testing.T) {
	c := &clock{t: time.Unix(0, 0)}
	l := New(2, 10, WithClock(c.now), WithIdleTTL(time.Hour))

	assert.True(t, l.Allow("k"))
	c.t = c.t.Add(time.Minute)
	assert.True(t, l.Allow("k"))
	assert.True(t, l.Allow("k"))
	assert.False(t, l.Allow("k"))
}

func TestLimiter_IdleBucketsDropped(t *testing.T) {
	c := &clock{t: time.Unix(0, 0)}
	l := New(1, 0.001, WithClock(c.now), WithIdleTTL(time.Minute))

	l.Allow("a")
	l.Allow("b")
	assert.Equal(t, 2, l.Len())

	c.t = c.t.Add(2 * time.Minute)
	l.Allow("c")
	assert.Equal(t, 1, l.Len())
}
