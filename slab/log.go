package slab

import "github.com/bnclabs/slabpool/log"

// Logger is re-exported from package log so callers configuring a
// Router never need to import the log package directly; the allocator
// keeps a single pluggable Logger seam rather than letting every
// package grow its own.
type Logger = log.Logger

// defaultLoggerFor builds a new default Logger honoring "log.level"/
// "log.file" out of a Router's settings (info level to stdout unless the
// caller overrides them). The new Logger also replaces package log's
// process-wide logger.
func defaultLoggerFor(setts map[string]interface{}) Logger {
	return log.SetLogger(nil, setts)
}
