// Author: momentics <momentics@gmail.com>

package pool

import "testing"

func TestBytePoolRecycling(t *testing.T) {
	p := NewBytePool(128)
	buf := p.GetBuffer()
	if len(buf) != 128 {
		t.Fatalf("got len %d, want 128", len(buf))
	}
	p.PutBuffer(buf)

	buf2 := p.GetBuffer()
	if len(buf2) != 128 {
		t.Fatalf("got len %d, want 128", len(buf2))
	}
}

func TestBytePoolRejectsWrongSizedBuffer(t *testing.T) {
	p := NewBytePool(128)
	// A buffer from a different size class must not be accepted, or it
	// would silently corrupt later GetBuffer callers' size assumption.
	p.PutBuffer(make([]byte, 64))
	buf := p.GetBuffer()
	if len(buf) != 128 {
		t.Fatalf("got len %d, want 128 (wrong-sized Put should have been ignored)", len(buf))
	}
}
