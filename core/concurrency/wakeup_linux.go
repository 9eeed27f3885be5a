//go:build linux

// File: core/concurrency/wakeup_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// eventfd(2)-backed Wakeup: a single fd usable both for reading and
// writing the same 64-bit kernel counter, so signal and drain sides
// need no pipe pair.

package concurrency

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

type eventfdWakeup struct {
	fd int
}

// NewWakeup creates an eventfd-backed Wakeup.
func NewWakeup() (Wakeup, error) {
	r0, _, errno := unix.Syscall(unix.SYS_EVENTFD2, 0, uintptr(unix.EFD_NONBLOCK|unix.EFD_CLOEXEC), 0)
	if errno != 0 {
		return nil, errno
	}
	return &eventfdWakeup{fd: int(r0)}, nil
}

func (w *eventfdWakeup) FD() int { return w.fd }

func (w *eventfdWakeup) Signal() error {
	one := uint64(1)
	buf := (*[8]byte)(unsafe.Pointer(&one))[:]
	_, err := unix.Write(w.fd, buf)
	if err == unix.EAGAIN {
		// Counter is at its maximum: a wake is already pending, coalesce.
		return nil
	}
	return err
}

func (w *eventfdWakeup) Drain() {
	var buf [8]byte
	for {
		_, err := unix.Read(w.fd, buf[:])
		if err != nil {
			return
		}
	}
}

func (w *eventfdWakeup) Close() error {
	return unix.Close(w.fd)
}
