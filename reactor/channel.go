// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

package reactor

import "time"

// LoopHandle is the subset of the owning EventLoop that a Channel needs:
// a way to push interest-mask changes through to the Multiplexer and a
// way to assert it is being touched from the right goroutine. It lives
// here (not in core/concurrency) to avoid a Channel <-> EventLoop import
// cycle; core/concurrency.EventLoop implements it.
type LoopHandle interface {
	UpdateChannel(c *Channel)
	RemoveChannel(c *Channel)
	AssertInLoopThread()
}

// ReadCallback is invoked when a Channel becomes readable. receiveTime is
// the Multiplexer's poll-return timestamp, not the current time, so
// multiple channels made ready by the same poll share one timestamp.
type ReadCallback func(receiveTime time.Time)

// Channel binds one fd to an interest mask and a set of per-event
// callbacks, within exactly one owning EventLoop. It does not own the fd:
// the fd's lifetime belongs to whatever higher layer created it.
//
// Invariant: a Channel is only ever mutated on its owner loop's goroutine.
type Channel struct {
	owner LoopHandle
	fd    int

	events  EventMask // interest mask, set by this Channel's owner
	revents EventMask // last observed readiness, written only by the Multiplexer
	index   int       // opaque Multiplexer slot hint; negative = not registered

	onRead  ReadCallback
	onWrite func()
	onClose func()
	onError func()

	// eventHandling guards against a Channel re-entering handleEvent while
	// already inside one of its own callbacks, e.g. if a callback calls
	// Remove() on itself.
	eventHandling bool
	addedToLoop   bool
}

// NewChannel creates a Channel for fd, owned by loop. It is not yet
// registered with any Multiplexer; call EnableReading/EnableWriting (which
// calls back into owner.UpdateChannel) to register it.
func NewChannel(owner LoopHandle, fd int) *Channel {
	return &Channel{
		owner: owner,
		fd:    fd,
		index: -1,
	}
}

// Fd returns the bound file descriptor.
func (c *Channel) Fd() int { return c.fd }

// Events returns the current interest mask.
func (c *Channel) Events() EventMask { return c.events }

// SetRevents is called only by the Multiplexer implementation after poll.
func (c *Channel) SetRevents(r EventMask) { c.revents = r }

// Index is the Multiplexer's opaque per-implementation slot hint.
func (c *Channel) Index() int { return c.index }

// SetIndex is called only by the Multiplexer implementation.
func (c *Channel) SetIndex(i int) { c.index = i }

// IsNoneEvent reports whether this Channel currently has no interest.
func (c *Channel) IsNoneEvent() bool { return c.events == EventNone }

// SetReadCallback, SetWriteCallback, SetCloseCallback and SetErrorCallback
// install the four optional per-event callbacks. Each must be called from
// the owner loop's goroutine; there is no synchronization beyond thread
// affinity.
func (c *Channel) SetReadCallback(cb ReadCallback) { c.onRead = cb }
func (c *Channel) SetWriteCallback(cb func())      { c.onWrite = cb }
func (c *Channel) SetCloseCallback(cb func())      { c.onClose = cb }
func (c *Channel) SetErrorCallback(cb func())      { c.onError = cb }

// EnableReading adds READ to the interest mask and pushes the change to
// the Multiplexer via the owner loop.
func (c *Channel) EnableReading() {
	c.events |= EventRead
	c.update()
}

// EnableWriting adds WRITE to the interest mask.
func (c *Channel) EnableWriting() {
	c.events |= EventWrite
	c.update()
}

// DisableWriting removes WRITE from the interest mask.
func (c *Channel) DisableWriting() {
	c.events &^= EventWrite
	c.update()
}

// DisableReading removes READ from the interest mask.
func (c *Channel) DisableReading() {
	c.events &^= EventRead
	c.update()
}

// DisableAll clears the interest mask entirely (events becomes NONE).
func (c *Channel) DisableAll() {
	c.events = EventNone
	c.update()
}

// IsWriting reports whether WRITE is currently in the interest mask.
func (c *Channel) IsWriting() bool { return c.events&EventWrite != 0 }

// IsReading reports whether READ is currently in the interest mask.
func (c *Channel) IsReading() bool { return c.events&EventRead != 0 }

func (c *Channel) update() {
	c.addedToLoop = true
	c.owner.UpdateChannel(c)
}

// Remove unregisters this Channel from its owner's Multiplexer. The
// Channel must be disabled (events == NONE) first.
func (c *Channel) Remove() {
	c.addedToLoop = false
	c.owner.RemoveChannel(c)
}

// HandleEvent dispatches based on the last-observed revents, in a fixed
// order: close (only when no longer readable), then error, then read,
// then write. A Channel never re-enters HandleEvent for itself: if a
// callback removes or re-enables the Channel, that takes effect only on
// the next poll.
func (c *Channel) HandleEvent(receiveTime time.Time) {
	if c.eventHandling {
		return
	}
	c.eventHandling = true
	defer func() { c.eventHandling = false }()

	if c.revents&EventClose != 0 && c.revents&EventRead == 0 {
		if c.onClose != nil {
			c.onClose()
		}
	}
	if c.revents&EventError != 0 {
		if c.onError != nil {
			c.onError()
		}
	}
	if c.revents&(EventRead|EventClose) != 0 {
		if c.onRead != nil {
			c.onRead(receiveTime)
		}
	}
	if c.revents&EventWrite != 0 {
		if c.onWrite != nil {
			c.onWrite()
		}
	}
}
