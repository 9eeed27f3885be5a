//go:build linux

// control/platform_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific probes: facts about the host that bound what the
// reactor can do (CPU count for worker sizing, the kernel's accept
// backlog ceiling).

package control

import (
	"bytes"
	"os"
	"runtime"
	"strconv"
)

// RegisterPlatformProbes installs the Linux host probes.
func RegisterPlatformProbes(pr *ProbeRegistry) {
	pr.Register("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	pr.Register("platform.somaxconn", func() any {
		raw, err := os.ReadFile("/proc/sys/net/core/somaxconn")
		if err != nil {
			return nil
		}
		n, err := strconv.Atoi(string(bytes.TrimSpace(raw)))
		if err != nil {
			return nil
		}
		return n
	})
}
