package slab

import "github.com/bnclabs/slabpool/lib"

// classStats tracks the running distribution of requested sizes routed
// to one class, plus a histogram of how deep that class's thread cache
// was sitting at the moment a block came back, reusing the running-
// statistics helpers in lib wherever a numeric series is sampled
// repeatedly.
type classStats struct {
	requested lib.AverageInt64
	residency *lib.HistogramInt64
}

func newClassStats(highWater int) classStats {
	return classStats{residency: lib.NewhistorgramInt64(0, int64(highWater), 8)}
}

func (cs *classStats) observeAlloc(n int) {
	cs.requested.Add(int64(n))
}

func (cs *classStats) observeFree(cacheDepth int) {
	cs.residency.Add(int64(cacheDepth))
}

// Stats returns a snapshot of the requested-size distribution and the
// thread-cache residency histogram Router has observed for classIndex,
// or nil if classIndex is out of range.
func (r *Router) Stats(classIndex int) map[string]interface{} {
	if classIndex < 0 || classIndex >= numClasses {
		return nil
	}
	cs := &r.stats[classIndex]
	stats := cs.requested.Stats()
	stats["residency"] = cs.residency.Fullstats()
	return stats
}
