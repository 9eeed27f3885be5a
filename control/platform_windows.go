//go:build windows

// control/platform_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows host probes; only the model-neutral facts apply here.

package control

import (
	"runtime"
)

// RegisterPlatformProbes installs the Windows host probes.
func RegisterPlatformProbes(pr *ProbeRegistry) {
	pr.Register("platform.cpus", func() any {
		return runtime.NumCPU()
	})
}
