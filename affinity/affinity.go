// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Package affinity pins loop threads to CPUs. A LoopThreadPool init
// callback is the intended caller: each worker goroutine is already
// locked to its OS thread when the callback runs, which is the
// precondition for pinning to mean anything.

package affinity

// SetAffinity pins the calling OS thread to the given logical CPU.
// Call after runtime.LockOSThread; returns an error on platforms
// without thread affinity support.
func SetAffinity(cpuID int) error {
	return setAffinityPlatform(cpuID)
}
