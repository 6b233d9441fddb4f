package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[int](2)
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	_, ok := c.Get("a")
	assert.True(t, ok)

	c.Set("c", 3, time.Minute)

	_, ok = c.Get("b")
	assert.False(t, ok)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())
}

func TestLRUExpires(t *testing.T) {
	now := time.Unix(0, 0)
	c := NewLRU[string](4)
	c.now = func() time.Time { return now }

	c.Set("k", "v", time.Second)
	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	now = now.Add(time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLRUOverwrite(t *testing.T) {
	c := NewLRU[string](2)
	c.Set("k", "old", time.Minute)
	c.Set("k", "new", time.Minute)

	v, _ := c.Get("k")
	assert.Equal(t, "new", v)
	assert.Equal(t, 1, c.Len())
}
