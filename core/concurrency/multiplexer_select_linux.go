//go:build linux

// File: core/concurrency/multiplexer_select_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import "github.com/momentics/reactorcore/reactor"

// newDefaultMultiplexer picks the scalable epoll-backed Multiplexer on
// Linux; poll(2) stays the fallback for kernels without epoll.
func newDefaultMultiplexer() (reactor.Multiplexer, error) {
	m, err := reactor.NewEpollMultiplexer()
	if err != nil {
		return reactor.NewPollMultiplexer()
	}
	return m, nil
}
