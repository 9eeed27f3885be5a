//go:build !linux

// File: core/concurrency/multiplexer_select_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import "github.com/momentics/reactorcore/reactor"

// newDefaultMultiplexer falls back to the portable poll(2)-backed
// Multiplexer on platforms without epoll.
func newDefaultMultiplexer() (reactor.Multiplexer, error) {
	return reactor.NewPollMultiplexer()
}
