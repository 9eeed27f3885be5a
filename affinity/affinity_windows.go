//go:build windows

// File: affinity/affinity_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows thread pinning via SetThreadAffinityMask on the current
// thread's pseudo-handle.

package affinity

import (
	"syscall"
)

func setAffinityPlatform(cpuID int) error {
	kernel32 := syscall.NewLazyDLL("kernel32.dll")
	setMask := kernel32.NewProc("SetThreadAffinityMask")
	currentThread := kernel32.NewProc("GetCurrentThread")

	hThread, _, _ := currentThread.Call()
	mask := uintptr(1) << cpuID
	ret, _, err := setMask.Call(hThread, mask)
	if ret == 0 {
		return err
	}
	return nil
}
