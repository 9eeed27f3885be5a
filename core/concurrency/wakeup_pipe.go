//go:build !linux && !windows

// File: core/concurrency/wakeup_pipe.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Self-pipe Wakeup for platforms without eventfd(2) (darwin, bsd). Same
// contract as the Linux eventfd variant: a single byte write wakes the
// loop; concurrent writes while the loop hasn't drained yet coalesce
// because Drain empties the pipe in one loop, not one read per write.

package concurrency

import "golang.org/x/sys/unix"

type pipeWakeup struct {
	readFd, writeFd int
}

// NewWakeup creates a self-pipe-backed Wakeup.
func NewWakeup() (Wakeup, error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		return nil, err
	}
	return &pipeWakeup{readFd: fds[0], writeFd: fds[1]}, nil
}

func (w *pipeWakeup) FD() int { return w.readFd }

func (w *pipeWakeup) Signal() error {
	_, err := unix.Write(w.writeFd, []byte{1})
	if err == unix.EAGAIN {
		// Pipe buffer is full, so a wake is already pending; coalesce.
		return nil
	}
	return err
}

func (w *pipeWakeup) Drain() {
	var buf [64]byte
	for {
		_, err := unix.Read(w.readFd, buf[:])
		if err != nil {
			return
		}
	}
}

func (w *pipeWakeup) Close() error {
	err1 := unix.Close(w.readFd)
	err2 := unix.Close(w.writeFd)
	if err1 != nil {
		return err1
	}
	return err2
}
