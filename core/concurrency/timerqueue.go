// File: core/concurrency/timerqueue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// TimerQueue is the per-EventLoop timer heap: entries ordered by
// expiration, armed against a single kernel wakeup source (timerfd on
// Linux), with all mutation forced onto the loop thread via RunInLoop so
// the heap itself never needs its own lock.

package concurrency

import (
	"container/heap"
	"sync/atomic"
	"time"

	"github.com/momentics/reactorcore/reactor"
)

// TimerQueue owns the ordered set of timers for one EventLoop and the
// single kernel primitive used to wake the loop at the next expiration.
type TimerQueue struct {
	loop    *EventLoop
	trigger timerTrigger
	heap    timerHeap
	byId    map[TimerId]*timerEntry
	nextSeq int64

	// nextId is the only TimerQueue field touched off the loop thread:
	// ids are handed out in the caller's goroutine before the insert is
	// marshalled, so the counter must be atomic to keep ids unique.
	nextId atomic.Int64

	// cancellingIds holds ids cancelled from within the currently-firing
	// handleExpiry call, so a repeating timer that cancels itself while
	// its own callback runs does not get re-armed.
	cancellingIds map[TimerId]struct{}
	firing        bool
}

// newTimerQueue constructs a TimerQueue bound to loop. Must be called
// from the loop's own goroutine during EventLoop construction.
func newTimerQueue(loop *EventLoop) (*TimerQueue, error) {
	q := &TimerQueue{
		loop:          loop,
		byId:          make(map[TimerId]*timerEntry),
		cancellingIds: make(map[TimerId]struct{}),
	}
	trig, err := newTimerTrigger(loop, q.handleExpiry)
	if err != nil {
		return nil, err
	}
	q.trigger = trig
	return q, nil
}

// RunAt schedules cb to run once at `at`.
func (q *TimerQueue) RunAt(at time.Time, cb TimerCallback) TimerId {
	return q.addTimer(at, 0, false, cb)
}

// RunAfter schedules cb to run once after delay.
func (q *TimerQueue) RunAfter(delay time.Duration, cb TimerCallback) TimerId {
	return q.addTimer(time.Now().Add(delay), 0, false, cb)
}

// RunEvery schedules cb to run every interval, starting after one interval.
func (q *TimerQueue) RunEvery(interval time.Duration, cb TimerCallback) TimerId {
	return q.addTimer(time.Now().Add(interval), interval, true, cb)
}

// Cancel cancels a previously scheduled timer. Safe from any goroutine.
func (q *TimerQueue) Cancel(id TimerId) {
	q.loop.RunInLoop(func() {
		q.cancelInLoop(id)
	})
}

func (q *TimerQueue) addTimer(at time.Time, interval time.Duration, repeat bool, cb TimerCallback) TimerId {
	id := TimerId(q.nextId.Add(1))
	e := &timerEntry{expireAt: at, interval: interval, repeat: repeat, id: id, cb: cb}
	q.loop.RunInLoop(func() {
		q.addTimerInLoop(e)
	})
	return id
}

func (q *TimerQueue) addTimerInLoop(e *timerEntry) {
	q.loop.AssertInLoopThread()
	q.nextSeq++
	e.seq = q.nextSeq
	earliestChanged := len(q.heap) == 0 || e.expireAt.Before(q.heap[0].expireAt)
	heap.Push(&q.heap, e)
	q.byId[e.id] = e
	if earliestChanged {
		q.trigger.arm(e.expireAt)
	}
}

func (q *TimerQueue) cancelInLoop(id TimerId) {
	q.loop.AssertInLoopThread()
	if q.firing {
		q.cancellingIds[id] = struct{}{}
	}
	e, ok := q.byId[id]
	if !ok {
		return
	}
	delete(q.byId, id)
	for i, entry := range q.heap {
		if entry == e {
			heap.Remove(&q.heap, i)
			break
		}
	}
}

// handleExpiry runs on the loop thread when the trigger fires. It pops
// every entry whose expiration has passed, runs each callback, re-arms
// repeating entries that were not cancelled mid-fire, and rearms the
// trigger for the new earliest deadline.
func (q *TimerQueue) handleExpiry() {
	q.loop.AssertInLoopThread()
	now := time.Now()

	var expired []*timerEntry
	for len(q.heap) > 0 && !q.heap[0].expireAt.After(now) {
		e := heap.Pop(&q.heap).(*timerEntry)
		delete(q.byId, e.id)
		expired = append(expired, e)
	}

	q.firing = true
	q.cancellingIds = make(map[TimerId]struct{})
	for _, e := range expired {
		e.cb()
	}
	q.firing = false

	for _, e := range expired {
		if _, cancelled := q.cancellingIds[e.id]; e.repeat && !cancelled {
			e.restart(now)
			q.nextSeq++
			e.seq = q.nextSeq
			heap.Push(&q.heap, e)
			q.byId[e.id] = e
		}
	}

	if len(q.heap) > 0 {
		q.trigger.arm(q.heap[0].expireAt)
	}
}

// close releases the trigger's kernel resources. Called from
// EventLoop's own teardown.
func (q *TimerQueue) close() error {
	return q.trigger.close()
}

// timerTrigger is the platform-specific kernel wakeup backing a
// TimerQueue: a Linux timerfd wrapped in a reactor.Channel, or a
// portable goroutine+time.Timer fallback elsewhere.
type timerTrigger interface {
	// arm schedules onExpire to fire (via the owning loop) no earlier
	// than `at`. Calling arm again before it fires reschedules it.
	arm(at time.Time)
	close() error
}

var _ reactor.LoopHandle = (*EventLoop)(nil)
