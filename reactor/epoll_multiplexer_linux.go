//go:build linux

// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

package reactor

import (
	"time"

	"golang.org/x/sys/unix"
)

// EpollMultiplexer is the scalable Multiplexer variant: O(1) per Update
// (epoll_ctl keeps its own kernel-side interest set, there is no array
// to re-scan) and O(active) per Poll, versus PollMultiplexer's O(total
// registered) scan.
//
// Channel.Index() here is repurposed as a simple "is this fd currently
// added to epoll" flag (0 = not added, 1 = added) rather than a slot
// number; its interpretation is private to this implementation.
type EpollMultiplexer struct {
	epfd   int
	byFd   map[int]*Channel
	events []unix.EpollEvent
}

// NewEpollMultiplexer creates a new epoll(7)-backed Multiplexer.
func NewEpollMultiplexer() (*EpollMultiplexer, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &EpollMultiplexer{
		epfd:   epfd,
		byFd:   make(map[int]*Channel),
		events: make([]unix.EpollEvent, 128),
	}, nil
}

func toEpollEvents(m EventMask) uint32 {
	var e uint32
	if m&EventRead != 0 {
		e |= unix.EPOLLIN
	}
	if m&EventWrite != 0 {
		e |= unix.EPOLLOUT
	}
	return e
}

func fromEpollEvents(e uint32) EventMask {
	var m EventMask
	if e&unix.EPOLLIN != 0 {
		m |= EventRead
	}
	if e&unix.EPOLLOUT != 0 {
		m |= EventWrite
	}
	if e&unix.EPOLLERR != 0 {
		m |= EventError
	}
	if e&unix.EPOLLHUP != 0 {
		m |= EventClose
	}
	return m
}

// Update implements Multiplexer.
func (e *EpollMultiplexer) Update(c *Channel) error {
	ev := unix.EpollEvent{Events: toEpollEvents(c.Events()), Fd: int32(c.Fd())}

	if c.Index() <= 0 {
		if c.IsNoneEvent() {
			// Never added and already nothing to watch: nothing to do,
			// but still mark it known so Remove's precondition holds.
			c.SetIndex(0)
			e.byFd[c.Fd()] = c
			return nil
		}
		if err := unix.EpollCtl(e.epfd, unix.EPOLL_CTL_ADD, c.Fd(), &ev); err != nil {
			return err
		}
		c.SetIndex(1)
		e.byFd[c.Fd()] = c
		return nil
	}

	if c.IsNoneEvent() {
		if err := unix.EpollCtl(e.epfd, unix.EPOLL_CTL_DEL, c.Fd(), nil); err != nil {
			return err
		}
		c.SetIndex(0)
		return nil
	}
	return unix.EpollCtl(e.epfd, unix.EPOLL_CTL_MOD, c.Fd(), &ev)
}

// Remove implements Multiplexer. Precondition: c.IsNoneEvent().
func (e *EpollMultiplexer) Remove(c *Channel) error {
	delete(e.byFd, c.Fd())
	c.SetIndex(-1)
	return nil
}

// HasChannel implements Multiplexer.
func (e *EpollMultiplexer) HasChannel(c *Channel) bool {
	ch, ok := e.byFd[c.Fd()]
	return ok && ch == c
}

// Poll implements Multiplexer.
func (e *EpollMultiplexer) Poll(timeoutMs int) (time.Time, []*Channel, error) {
	n, err := unix.EpollWait(e.epfd, e.events, timeoutMs)
	now := time.Now()
	if err != nil {
		if err == unix.EINTR {
			return now, nil, nil
		}
		return now, nil, err
	}
	if n == 0 {
		return now, nil, nil
	}
	active := make([]*Channel, 0, n)
	for i := 0; i < n; i++ {
		ch, ok := e.byFd[int(e.events[i].Fd)]
		if !ok {
			continue
		}
		ch.SetRevents(fromEpollEvents(e.events[i].Events))
		active = append(active, ch)
	}
	if n == len(e.events) {
		e.events = make([]unix.EpollEvent, len(e.events)*2)
	}
	return now, active, nil
}

// Close implements Multiplexer.
func (e *EpollMultiplexer) Close() error {
	return unix.Close(e.epfd)
}
