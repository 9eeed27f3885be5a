//go:build !windows

// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

package reactor

import (
	"time"

	"golang.org/x/sys/unix"
)

// PollMultiplexer is the portable, readiness-array Multiplexer baseline:
// a dense slice of pollfd entries plus an fd->Channel map, driven by
// poll(2):
//
//   - Update: a new Channel is appended and its index stored back; an
//     existing Channel's slot is located by index and its interest mask
//     rewritten. A NONE Channel has its slot's fd flipped to -fd-1 so the
//     kernel ignores it while channels/pollfds stay index-aligned.
//   - Remove: swap the removed slot with the last slot, fix up the
//     swapped Channel's index, pop the tail, erase the map entry — O(1).
//   - Poll: blocks in unix.Poll, then scans the dense slice once,
//     short-circuiting once every reported event has been collected.
type PollMultiplexer struct {
	pollfds  []unix.PollFd
	channels []*Channel
	byFd     map[int]*Channel
}

// NewPollMultiplexer constructs an empty PollMultiplexer.
func NewPollMultiplexer() (Multiplexer, error) {
	return &PollMultiplexer{
		byFd: make(map[int]*Channel),
	}, nil
}

func toPollEvents(m EventMask) int16 {
	var e int16
	if m&EventRead != 0 {
		e |= unix.POLLIN
	}
	if m&EventWrite != 0 {
		e |= unix.POLLOUT
	}
	return e
}

func fromPollEvents(e int16) EventMask {
	var m EventMask
	if e&(unix.POLLIN|unix.POLLPRI) != 0 {
		m |= EventRead
	}
	if e&unix.POLLOUT != 0 {
		m |= EventWrite
	}
	if e&(unix.POLLERR|unix.POLLNVAL) != 0 {
		m |= EventError
	}
	if e&unix.POLLHUP != 0 {
		m |= EventClose
	}
	return m
}

// Update implements Multiplexer.
func (p *PollMultiplexer) Update(c *Channel) error {
	if c.Index() < 0 {
		pfd := unix.PollFd{Fd: int32(c.Fd()), Events: toPollEvents(c.Events())}
		p.pollfds = append(p.pollfds, pfd)
		p.channels = append(p.channels, c)
		idx := len(p.pollfds) - 1
		c.SetIndex(idx)
		p.byFd[c.Fd()] = c
		return nil
	}

	idx := c.Index()
	pfd := &p.pollfds[idx]
	pfd.Events = toPollEvents(c.Events())
	pfd.Revents = 0
	if c.IsNoneEvent() {
		// Ignore this fd without unregistering; the sign flip keeps the
		// slot recoverable and poll(2) skips negative fds.
		pfd.Fd = int32(-c.Fd() - 1)
	} else {
		pfd.Fd = int32(c.Fd())
	}
	return nil
}

// Remove implements Multiplexer. Precondition: c.IsNoneEvent().
func (p *PollMultiplexer) Remove(c *Channel) error {
	idx := c.Index()
	last := len(p.pollfds) - 1
	delete(p.byFd, c.Fd())
	if idx == last {
		p.pollfds = p.pollfds[:last]
		p.channels = p.channels[:last]
	} else {
		p.pollfds[idx] = p.pollfds[last]
		p.channels[idx] = p.channels[last]
		p.channels[idx].SetIndex(idx)
		p.pollfds = p.pollfds[:last]
		p.channels = p.channels[:last]
	}
	c.SetIndex(-1)
	return nil
}

// HasChannel implements Multiplexer.
func (p *PollMultiplexer) HasChannel(c *Channel) bool {
	ch, ok := p.byFd[c.Fd()]
	return ok && ch == c
}

// Poll implements Multiplexer.
func (p *PollMultiplexer) Poll(timeoutMs int) (time.Time, []*Channel, error) {
	n, err := unix.Poll(p.pollfds, timeoutMs)
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
	remaining := n
	for i := range p.pollfds {
		if remaining == 0 {
			break
		}
		if p.pollfds[i].Revents == 0 {
			continue
		}
		remaining--
		ch := p.channels[i]
		ch.SetRevents(fromPollEvents(p.pollfds[i].Revents))
		active = append(active, ch)
	}
	return now, active, nil
}

// Close implements Multiplexer. PollMultiplexer holds no OS resources of
// its own beyond the fds it was handed, which it does not own.
func (p *PollMultiplexer) Close() error { return nil }
