//go:build !linux && !windows

// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>

package affinity

import "errors"

// setAffinityPlatform reports that thread pinning is unavailable here;
// worker loops still run, just wherever the scheduler puts them.
func setAffinityPlatform(cpuID int) error {
	return errors.New("affinity: not supported on this platform")
}
