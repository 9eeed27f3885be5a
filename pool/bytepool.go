// File: pool/bytepool.go
// Author: momentics <momentics@gmail.com>
//
// Fixed-size byte buffer pool the connection read paths borrow from. A
// plain sync.Pool per size class; buffers of any other size are refused
// on return.

package pool

import "sync"

// BytePool hands out fixed-size byte slices and recycles them on Put.
type BytePool struct {
	size int
	pool sync.Pool
}

// NewBytePool constructs a BytePool whose buffers are size bytes.
func NewBytePool(size int) *BytePool {
	b := &BytePool{size: size}
	b.pool.New = func() any {
		return make([]byte, b.size)
	}
	return b
}

// GetBuffer returns a buffer of exactly size bytes.
func (b *BytePool) GetBuffer() []byte {
	return b.pool.Get().([]byte)
}

// PutBuffer returns buf to the pool. buf must have been obtained from
// GetBuffer on this pool and must not be used again by the caller.
func (b *BytePool) PutBuffer(buf []byte) {
	if cap(buf) != b.size {
		return
	}
	b.pool.Put(buf[:b.size])
}
