// Package pool
// Author: momentics <momentics@gmail.com>
//
// Buffer pooling for the reactor's connection read paths. BytePool
// hands out fixed-size byte slices and recycles them, so per-read
// allocations stay off the hot path regardless of connection count.
package pool
