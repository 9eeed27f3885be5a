// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor implements the I/O multiplexer abstraction and the
// Channel that binds one file descriptor to its interest mask and
// per-event callbacks. A Channel is only ever mutated on its owner
// loop's goroutine; the Multiplexer owns the fd-to-Channel index and
// is never touched from any other goroutine either.
package reactor
