// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

package reactor

// EventMask is a bitmask of interest/readiness events a Channel can
// carry. Its bit values are its own, not poll(2)'s or epoll(7)'s: each
// Multiplexer translates it to and from the kernel's flags.
type EventMask uint32

const (
	// EventNone means "ignore this fd without unregistering it".
	EventNone  EventMask = 0
	EventRead  EventMask = 1 << 0
	EventWrite EventMask = 1 << 1

	// EventError and EventClose are never set as interest; the
	// Multiplexer only ever reports them in revents.
	EventError EventMask = 1 << 2
	EventClose EventMask = 1 << 3
)

func (m EventMask) String() string {
	if m == EventNone {
		return "NONE"
	}
	s := ""
	add := func(bit EventMask, name string) {
		if m&bit == 0 {
			return
		}
		if s != "" {
			s += "|"
		}
		s += name
	}
	add(EventRead, "READ")
	add(EventWrite, "WRITE")
	add(EventError, "ERROR")
	add(EventClose, "CLOSE")
	return s
}
