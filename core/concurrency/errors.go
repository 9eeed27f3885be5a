// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fault definitions for the concurrency module. Thread affinity and
// lifecycle violations are programmer errors: fatal, not recoverable,
// and reported by panicking with a Fault rather than returning an
// error a caller could plausibly ignore.

package concurrency

import "fmt"

// Fault is a structured programmer-error diagnostic: a stable code to
// grep for, a human-readable message, and optional key/value context
// captured at the failure site.
type Fault struct {
	Code    string
	Message string
	Context map[string]any
}

func (f *Fault) Error() string {
	if len(f.Context) == 0 {
		return fmt.Sprintf("concurrency: %s: %s", f.Code, f.Message)
	}
	return fmt.Sprintf("concurrency: %s: %s %v", f.Code, f.Message, f.Context)
}

// With returns a copy of f carrying one extra context entry, so the
// shared sentinel values below stay immutable.
func (f *Fault) With(key string, value any) *Fault {
	ctx := make(map[string]any, len(f.Context)+1)
	for k, v := range f.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &Fault{Code: f.Code, Message: f.Message, Context: ctx}
}

var (
	// ErrAlreadyLooping is the cause of a panic when Loop is called a
	// second time on the same EventLoop.
	ErrAlreadyLooping = &Fault{
		Code:    "loop-already-running",
		Message: "EventLoop.Loop called more than once",
	}

	// ErrNotLoopThread is the cause of a panic when a mutating call
	// reaches an EventLoop or a Channel it owns from any goroutine other
	// than the one that is running Loop.
	ErrNotLoopThread = &Fault{
		Code:    "not-loop-thread",
		Message: "call made from outside the owning loop goroutine",
	}

	// ErrDuplicateLoop is the cause of a panic when a second EventLoop is
	// driven on a goroutine that has locked itself to an OS thread
	// already hosting one.
	ErrDuplicateLoop = &Fault{
		Code:    "duplicate-loop",
		Message: "an EventLoop is already running on this OS thread",
	}

	// ErrPoolAlreadyStarted is the cause of a panic when SetThreadNum or
	// Start is called after the pool has already started.
	ErrPoolAlreadyStarted = &Fault{
		Code:    "pool-already-started",
		Message: "LoopThreadPool already started",
	}
)
