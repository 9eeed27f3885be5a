//go:build windows

// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

package reactor

import "errors"

// NewPollMultiplexer is unavailable on Windows: the readiness model has
// no native equivalent there, and an IOCP port would be a completion
// model with a different Channel contract, not a Multiplexer variant.
func NewPollMultiplexer() (Multiplexer, error) {
	return nil, errors.New("reactor: poll-based multiplexer is not supported on windows")
}
