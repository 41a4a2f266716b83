package slab

import "runtime"

import s "github.com/prataprc/gosettings"

// defaultBatch and defaultHighWater keep high_water - batch_size ==
// batch_size, bounding per-class, per-shard residency to one batch
// above the steady-state floor.
const defaultBatch = 64
const defaultHighWater = 2 * defaultBatch

// Defaultsettings returns the Router's tunables, mirroring the
// Defaultsettings()/Settings.Mixin convention the rest of this module's
// configuration follows.
//
// "cache.batch" (int64, default: 64)
//		Number of blocks moved between a shard's cache and the central
//		pool in one refill or flush.
//
// "cache.highwater" (int64, default: 128)
//		Shard cache count, per class, at which a flush is triggered.
//
// "cache.shards" (int64, default: nextPow2(runtime.NumCPU()))
//		Number of independent shard caches the router spreads goroutines
//		across.
//
// "log.level" (string, default: "info")
// "log.file" (string, default: "")
func Defaultsettings() s.Settings {
	return s.Settings{
		"cache.batch":     int64(defaultBatch),
		"cache.highwater": int64(defaultHighWater),
		"cache.shards":    int64(nextPow2(runtime.NumCPU())),
		"log.level":       "info",
		"log.file":        "",
	}
}
