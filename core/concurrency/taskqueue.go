// File: core/concurrency/taskqueue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// pendingTaskQueue is the cross-thread mailbox an EventLoop drains once
// per iteration. The lock is held only long enough to append, or to
// swap the whole backlog out, so callbacks never run under it. The
// backing store is github.com/eapache/queue's growable ring buffer.

package concurrency

import (
	"sync"

	"github.com/eapache/queue"
)

// Task is a unit of work queued for execution on an EventLoop's own
// goroutine.
type Task func()

type pendingTaskQueue struct {
	mu      sync.Mutex
	pending *queue.Queue
}

func newPendingTaskQueue() *pendingTaskQueue {
	return &pendingTaskQueue{pending: queue.New()}
}

// push appends t, returning true if the queue was empty beforehand (the
// caller uses this to decide whether a wakeup is needed).
func (q *pendingTaskQueue) push(t Task) (wasEmpty bool) {
	q.mu.Lock()
	wasEmpty = q.pending.Length() == 0
	q.pending.Add(t)
	q.mu.Unlock()
	return wasEmpty
}

// drain swaps the entire backlog out under lock and returns it as a
// plain slice, so the caller can run every task without holding the
// lock across arbitrary user callbacks.
func (q *pendingTaskQueue) drain() []Task {
	q.mu.Lock()
	n := q.pending.Length()
	if n == 0 {
		q.mu.Unlock()
		return nil
	}
	drained := make([]Task, 0, n)
	for i := 0; i < n; i++ {
		drained = append(drained, q.pending.Remove().(Task))
	}
	q.mu.Unlock()
	return drained
}
