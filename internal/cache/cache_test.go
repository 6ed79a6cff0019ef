package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	c := New(time.Minute, time.Minute)

	c.Set("sherdog:search:MOVSAR EVLOEV", "/fighter/Movsar-Evloev-12345")
	v, ok := c.Get("sherdog:search:MOVSAR EVLOEV")
	require.True(t, ok)
	assert.Equal(t, "/fighter/Movsar-Evloev-12345", v)

	_, ok = c.Get("sherdog:search:UNKNOWN")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	c := New(10*time.Millisecond, time.Minute)

	c.Set("k", "v")
	time.Sleep(30 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := New(time.Minute, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	assert.Equal(t, 2, c.Len())

	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}
