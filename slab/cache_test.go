package slab

import "testing"
import "unsafe"

import "github.com/stretchr/testify/require"

func TestThreadCachePopEmpty(t *testing.T) {
	var c threadCache
	_, ok := c.pop()
	require.False(t, ok)
}

func TestThreadCachePushPopLIFO(t *testing.T) {
	var c threadCache
	var a, b, d int64
	pa := unsafe.Pointer(&a)
	pb := unsafe.Pointer(&b)
	pd := unsafe.Pointer(&d)

	c.push(pa)
	c.push(pb)
	c.push(pd)
	require.Equal(t, 3, c.count)

	block, ok := c.pop()
	require.True(t, ok)
	require.Equal(t, pd, block)
	require.Equal(t, 2, c.count)

	block, ok = c.pop()
	require.True(t, ok)
	require.Equal(t, pb, block)

	block, ok = c.pop()
	require.True(t, ok)
	require.Equal(t, pa, block)

	_, ok = c.pop()
	require.False(t, ok)
}

func TestShardIndependentClasses(t *testing.T) {
	var sh shard
	var a, b int64
	pa := unsafe.Pointer(&a)
	pb := unsafe.Pointer(&b)

	sh.caches[0].push(pa)
	sh.caches[1].push(pb)

	require.Equal(t, 1, sh.caches[0].count)
	require.Equal(t, 1, sh.caches[1].count)

	block, ok := sh.caches[0].pop()
	require.True(t, ok)
	require.Equal(t, pa, block)
	require.Equal(t, 1, sh.caches[1].count)
}

func TestNextPow2(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 8: 8, 9: 16}
	for in, want := range cases {
		require.Equal(t, want, nextPow2(in))
	}
}
