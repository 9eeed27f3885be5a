// File: core/concurrency/wakeup.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Wakeup is the kernel primitive giving an EventLoop a readable fd that
// can be signalled from any goroutine. Its readable side is wrapped in
// a reactor.Channel owned by the loop; its writable side is signalled
// by Signal() from whatever goroutine needs to break the loop out of a
// blocking Poll. Multiple signals before the loop wakes coalesce into a
// single wake.

package concurrency

// Wakeup is a cross-goroutine loop-wakeup primitive.
type Wakeup interface {
	// FD is the readable side, for registering a reactor.Channel on it.
	FD() int
	// Signal wakes the loop. Safe to call concurrently from any
	// goroutine, including the loop's own.
	Signal() error
	// Drain consumes the pending signal; called from the readable
	// side's onRead callback.
	Drain()
	// Close releases the underlying fds.
	Close() error
}
