//go:build windows

// File: core/concurrency/wakeup_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Wakeup stub for Windows, where the readiness-model Multiplexer is
// unavailable as well: an EventLoop cannot be constructed there, so
// NewWakeup only has to fail cleanly rather than provide a primitive.

package concurrency

import "errors"

// NewWakeup is unavailable on Windows; the loop's Multiplexer is too,
// so construction fails before this matters.
func NewWakeup() (Wakeup, error) {
	return nil, errors.New("concurrency: loop wakeup is not supported on windows")
}
