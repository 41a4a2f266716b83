package slab

import "errors"

var ErrZeroSize = errors.New("slab.zerosize")
var ErrOversize = errors.New("slab.oversize")
var ErrOutOfMemory = errors.New("slab.outofmemory")
var ErrClosed = errors.New("slab.closed")
