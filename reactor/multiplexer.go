// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

package reactor

import "time"

// Multiplexer wraps the OS readiness primitive and owns the fd-to-Channel
// index. All of its methods must be called on the owner loop's goroutine.
//
// PollMultiplexer is the portable readiness-array baseline;
// EpollMultiplexer (linux only) is the O(1)-update variant.
// Channel.Index() is an opaque hint whose interpretation is private to
// whichever implementation is in use.
type Multiplexer interface {
	// Poll blocks up to timeoutMs milliseconds (0 = return immediately,
	// negative = block indefinitely) and returns the channels made ready,
	// plus the timestamp at which it woke. A channel never appears twice
	// in one returned slice.
	Poll(timeoutMs int) (pollReturnTime time.Time, active []*Channel, err error)

	// Update registers a new Channel or applies an interest-mask change
	// for one already registered.
	Update(c *Channel) error

	// Remove unregisters a Channel. Precondition: c.IsNoneEvent().
	Remove(c *Channel) error

	// HasChannel reports whether c is currently registered.
	HasChannel(c *Channel) bool

	// Close releases the underlying OS resources.
	Close() error
}
