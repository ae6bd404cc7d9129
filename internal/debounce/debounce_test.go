package debounce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolderOnlyLatestGenerationSettles(t *testing.T) {
	h := NewHolder("")

	g1 := h.Set("a")
	g2 := h.Set("ab")
	assert.True(t, h.Pending())

	_, ok := h.Settle(g1)
	assert.False(t, ok, "superseded generation must not settle")

	v, ok := h.Settle(g2)
	require.True(t, ok)
	assert.Equal(t, "ab", v)
	assert.False(t, h.Pending())

	_, ok = h.Settle(g2)
	assert.False(t, ok, "a generation settles at most once")

	stable, _ := h.Stable()
	assert.Equal(t, "ab", stable)
}

func TestHolderStableUntilSettled(t *testing.T) {
	h := NewHolder(1)
	h.Set(2)

	stable, ok := h.Stable()
	assert.True(t, ok)
	assert.Equal(t, 1, stable)
	assert.Equal(t, 2, h.Latest())
}

// tickClock fires Settle for each scheduled generation once its deadline
// passes, the way tea.Tick delivers a settle message after the delay.
type tickClock[T any] struct {
	holder  *Holder[T]
	delay   time.Duration
	now     time.Duration
	pending []scheduled
	emitted []emission[T]
}

type scheduled struct {
	gen uint64
	at  time.Duration
}

type emission[T any] struct {
	value T
	at    time.Duration
}

func (c *tickClock[T]) set(v T) {
	c.pending = append(c.pending, scheduled{gen: c.holder.Set(v), at: c.now + c.delay})
}

func (c *tickClock[T]) advance(d time.Duration) {
	c.now += d
	rest := c.pending[:0]
	for _, s := range c.pending {
		if s.at > c.now {
			rest = append(rest, s)
			continue
		}
		if v, ok := c.holder.Settle(s.gen); ok {
			c.emitted = append(c.emitted, emission[T]{value: v, at: s.at})
		}
	}
	c.pending = rest
}

func TestHolderBurstSettlesLastValueOnce(t *testing.T) {
	c := &tickClock[int]{holder: NewHolder(0), delay: 60 * time.Millisecond}

	for i := 1; i <= 5; i++ {
		c.set(i)
		c.advance(10 * time.Millisecond)
	}
	lastSet := c.now - 10*time.Millisecond
	c.advance(time.Second)

	require.Len(t, c.emitted, 1)
	assert.Equal(t, 5, c.emitted[0].value)
	assert.Equal(t, c.delay, c.emitted[0].at-lastSet)
}

func TestHolderFirstValueWaitsFullDelay(t *testing.T) {
	c := &tickClock[string]{holder: NewHolder(""), delay: 40 * time.Millisecond}

	c.set("first")
	c.advance(39 * time.Millisecond)
	assert.Empty(t, c.emitted)
	assert.True(t, c.holder.Pending())

	c.advance(time.Millisecond)
	require.Len(t, c.emitted, 1)
	assert.Equal(t, "first", c.emitted[0].value)
	assert.Equal(t, 40*time.Millisecond, c.emitted[0].at)
}

func TestHolderSeparatedChangesEachSettle(t *testing.T) {
	c := &tickClock[int]{holder: NewHolder(0), delay: 20 * time.Millisecond}

	c.set(1)
	c.advance(30 * time.Millisecond)
	c.set(2)
	c.advance(30 * time.Millisecond)

	require.Len(t, c.emitted, 2)
	assert.Equal(t, 1, c.emitted[0].value)
	assert.Equal(t, 2, c.emitted[1].value)
}
