//go:build linux

// File: core/concurrency/timerqueue_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// timerfd-backed timerTrigger: timerfd_create/timerfd_settime plus a
// dedicated Channel deliver expirations through the normal event-loop
// poll, rather than a separate thread.

package concurrency

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/momentics/reactorcore/reactor"
)

type timerfdTrigger struct {
	fd      int
	channel *reactor.Channel
}

func newTimerTrigger(loop *EventLoop, onExpire func()) (timerTrigger, error) {
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_NONBLOCK|unix.TFD_CLOEXEC)
	if err != nil {
		return nil, err
	}
	t := &timerfdTrigger{fd: fd}
	t.channel = reactor.NewChannel(loop, fd)
	t.channel.SetReadCallback(func(time.Time) {
		var buf [8]byte
		unix.Read(fd, buf[:]) // clear the expiration counter
		onExpire()
	})
	t.channel.EnableReading()
	return t, nil
}

func (t *timerfdTrigger) arm(at time.Time) {
	d := time.Until(at)
	if d < time.Millisecond {
		d = time.Millisecond
	}
	spec := unix.ItimerSpec{
		Value: unix.NsecToTimespec(d.Nanoseconds()),
	}
	_ = unix.TimerfdSettime(t.fd, 0, &spec, nil)
}

// close releases the timerfd. Called only from EventLoop teardown,
// after the loop has stopped polling.
func (t *timerfdTrigger) close() error {
	return unix.Close(t.fd)
}
