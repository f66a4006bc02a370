package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func TestTTLExpiry(t *testing.T) {
	clk := &fakeClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	c := New[int](10*time.Minute, 4).WithClock(clk.now)

	c.Put("NVDA|1y", 1)
	v, ok := c.Get("NVDA|1y")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	clk.t = clk.t.Add(11 * time.Minute)
	_, ok = c.Get("NVDA|1y")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLRUEviction(t *testing.T) {
	c := New[string](time.Hour, 2)
	c.Put("a", "A")
	c.Put("b", "B")
	_, _ = c.Get("a") // a is now most recent
	c.Put("c", "C")

	_, ok := c.Get("b")
	assert.False(t, ok, "b should be evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestPutOverwrites(t *testing.T) {
	c := New[int](time.Hour, 2)
	c.Put("a", 1)
	c.Put("a", 2)
	v, _ := c.Get("a")
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len())
}

func TestZeroSize(t *testing.T) {
	c := New[int](time.Hour, 0)
	c.Put("a", 1)
	c.Put("b", 2)
	assert.Equal(t, 1, c.Len())
}
