package slab

import "testing"

import "github.com/stretchr/testify/require"

func TestClassStatsObserve(t *testing.T) {
	cs := newClassStats(128)
	cs.observeAlloc(10)
	cs.observeAlloc(20)
	cs.observeAlloc(30)
	cs.observeFree(5)

	stats := cs.requested.Stats()
	require.Equal(t, int64(3), stats["samples"])
	require.Equal(t, int64(20), stats["mean"])
	require.Equal(t, int64(1), cs.residency.Samples())
}

func TestRouterStatsOutOfRange(t *testing.T) {
	r := newTestRouter()
	defer r.Close()

	require.Nil(t, r.Stats(-1))
	require.Nil(t, r.Stats(numClasses))
}

func TestRouterStatsTracksAllocations(t *testing.T) {
	r := newTestRouter()
	defer r.Close()

	class, ok := classFor(30)
	require.True(t, ok)

	for i := 0; i < 5; i++ {
		p, err := r.Alloc(30)
		require.NoError(t, err)
		r.Free(p)
	}

	stats := r.Stats(class)
	require.NotNil(t, stats)
	require.Equal(t, int64(5), stats["samples"])
	require.NotNil(t, stats["residency"])
}
