package policy_test

import (
	"testing"

	"github.com/kvcache-dev/kvcache/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapacityZeroDisablesAllPolicies(t *testing.T) {
	for _, kind := range []policy.Kind{policy.LRU, policy.LFU, policy.FIFO} {
		p := policy.New(kind, 0)

		victim, evicted := p.Set("a")
		assert.Equal(t, "", victim)
		assert.False(t, evicted)
		assert.False(t, p.Get("a"))
		assert.False(t, p.Has("a"))
		assert.Equal(t, 0, p.Size())
	}
}

func TestLRUEvictionOrdering(t *testing.T) {
	p := policy.New(policy.LRU, 3)

	p.Set("a")
	p.Set("b")
	p.Set("c")
	assert.True(t, p.Get("a"))

	victim, evicted := p.Set("d")
	require.True(t, evicted)
	assert.Equal(t, "b", victim)

	assert.ElementsMatch(t, []string{"a", "c", "d"}, p.Keys())
}

func TestLFUTieBreak(t *testing.T) {
	p := policy.New(policy.LFU, 3)

	p.Set("a")
	p.Set("b")
	p.Set("c")

	p.Get("a")
	p.Get("a")
	p.Get("b")

	victim, evicted := p.Set("d")
	require.True(t, evicted)
	assert.Equal(t, "c", victim)

	assert.ElementsMatch(t, []string{"a", "b", "d"}, p.Keys())
}

func TestFIFOIgnoresAccess(t *testing.T) {
	p := policy.New(policy.FIFO, 3)

	p.Set("a")
	p.Set("b")
	p.Set("c")

	p.Get("a")
	p.Get("a")

	victim, evicted := p.Set("d")
	require.True(t, evicted)
	assert.Equal(t, "a", victim)

	assert.ElementsMatch(t, []string{"b", "c", "d"}, p.Keys())
}

func TestUpdatingExistingKeyNeverEvicts(t *testing.T) {
	for _, kind := range []policy.Kind{policy.LRU, policy.LFU, policy.FIFO} {
		p := policy.New(kind, 2)

		p.Set("a")
		p.Set("b")

		_, evicted := p.Set("a")
		assert.False(t, evicted, "kind=%s", kind)
		assert.Equal(t, 2, p.Size(), "kind=%s", kind)
	}
}

func TestDeleteAndHas(t *testing.T) {
	for _, kind := range []policy.Kind{policy.LRU, policy.LFU, policy.FIFO} {
		p := policy.New(kind, 2)
		p.Set("a")

		assert.True(t, p.Has("a"), "kind=%s", kind)
		assert.True(t, p.Delete("a"), "kind=%s", kind)
		assert.False(t, p.Delete("a"), "kind=%s", kind)
		assert.False(t, p.Has("a"), "kind=%s", kind)
	}
}

func TestClear(t *testing.T) {
	for _, kind := range []policy.Kind{policy.LRU, policy.LFU, policy.FIFO} {
		p := policy.New(kind, 2)
		p.Set("a")
		p.Set("b")

		p.Clear()
		assert.Equal(t, 0, p.Size(), "kind=%s", kind)
		assert.Empty(t, p.Keys(), "kind=%s", kind)
	}
}

func TestEvictOnEmptyPolicy(t *testing.T) {
	for _, kind := range []policy.Kind{policy.LRU, policy.LFU, policy.FIFO} {
		p := policy.New(kind, 2)
		_, ok := p.Evict()
		assert.False(t, ok, "kind=%s", kind)
	}
}

func TestKindValid(t *testing.T) {
	assert.True(t, policy.LRU.Valid())
	assert.True(t, policy.LFU.Valid())
	assert.True(t, policy.FIFO.Valid())
	assert.False(t, policy.Kind("BOGUS").Valid())
}

func TestLFUMinFrequencyAfterDelete(t *testing.T) {
	p := policy.New(policy.LFU, 2)
	p.Set("a")
	p.Set("b")
	p.Get("a")

	require.True(t, p.Delete("a"))

	victim, evicted := p.Set("c")
	assert.False(t, evicted)
	assert.Equal(t, "", victim)

	victim, evicted = p.Set("d")
	require.True(t, evicted)
	assert.Equal(t, "b", victim)
}
