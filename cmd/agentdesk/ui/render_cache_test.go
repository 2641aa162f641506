package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeKey(t *testing.T) {
	assert.Equal(t, ComputeKey(123), ComputeKey(123))
	assert.Equal(t, ComputeKey("test", 123, 0.456, true), ComputeKey("test", 123, 0.456, true))
	assert.NotEqual(t, ComputeKey("prefix", 1.0), ComputeKey("prefix", 2.0))
	assert.NotEqual(t, ComputeKey("ab", "c"), ComputeKey("a", "bc"), "string boundaries must matter")
	assert.NotEqual(t, ComputeKey(true), ComputeKey(false))
}

func TestRenderCacheGetOrCompute(t *testing.T) {
	rc := NewRenderCache(4)
	calls := 0
	compute := func() string {
		calls++
		return "rendered"
	}

	key := ComputeKey("x", 80)
	assert.Equal(t, "rendered", rc.GetOrCompute(key, compute))
	assert.Equal(t, "rendered", rc.GetOrCompute(key, compute))
	assert.Equal(t, 1, calls)

	hits, misses := rc.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}

func TestRenderCacheEvictsOldest(t *testing.T) {
	rc := NewRenderCache(2)
	rc.Set(1, "one")
	rc.Set(2, "two")
	rc.Set(3, "three")

	assert.Equal(t, 2, rc.Len())
	_, ok := rc.Get(1)
	assert.False(t, ok)
	v, ok := rc.Get(3)
	assert.True(t, ok)
	assert.Equal(t, "three", v)
}
