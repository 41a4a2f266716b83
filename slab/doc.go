// Package slab implements a size-segregated, thread-caching slab
// allocator for small, short-lived objects of at most 511 user bytes.
//
// Three collaborating pieces do the work:
//
// pool:
//
// One instance per fixed size class. Owns an intrusive LIFO free list
// carved out of chunks obtained from a chunk.Provider, and grows on
// demand.
//
// Router (arena.go):
//
// Maps a requested byte count to a size class in constant time, stamps
// a one-byte class index into every block it hands out, and owns the
// fourteen pools plus their per-class mutexes.
//
// shard / threadCache (cache.go):
//
// A per-goroutine-shard, per-class free list, guarded by a per-shard
// mutex that is almost always uncontended; refilled from and flushed to
// the router's pools in batches.
//
// Allocate, Deallocate, Calloc and Realloc (alloc.go) are the package's
// public façade, backed by a process-lifetime Router singleton returned
// by Default.
package slab
