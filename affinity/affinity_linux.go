//go:build linux
// +build linux

// File: affinity/affinity_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific implementation for setting thread CPU affinity. Uses
// golang.org/x/sys/unix.SchedSetaffinity directly rather than cgo's
// pthread_setaffinity_np, so pinning a worker loop's OS thread carries
// no cgo build requirement and reuses the same dependency the reactor
// package already uses for epoll/poll.

package affinity

import "golang.org/x/sys/unix"

// setAffinityPlatform sets the calling OS thread's affinity to cpuID.
// Must be called after runtime.LockOSThread, from the goroutine whose
// backing thread is to be pinned: sched_setaffinity(2) with pid 0
// targets the calling thread.
func setAffinityPlatform(cpuID int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	return unix.SchedSetaffinity(0, &set)
}
