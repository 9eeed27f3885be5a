// File: core/concurrency/eventloop.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// EventLoop is the reactor core: one loop owns exactly one
// poll/dispatch cycle on exactly one OS thread, runs every other
// goroutine's work on that thread via RunInLoop/QueueInLoop, and is
// woken out of a blocking Poll by its own Wakeup channel. The owning
// goroutine calls runtime.LockOSThread before entering the cycle and
// records its goroutine id; every mutating method asserts the caller's
// id matches.

package concurrency

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/reactorcore/control"
	"github.com/momentics/reactorcore/reactor"
)

// loopRegistry tracks which goroutine is running which EventLoop, so a
// second loop can never be driven on a thread that already hosts one.
// Goroutine id is only a faithful proxy for OS thread identity once the
// goroutine has called runtime.LockOSThread, as Loop does before
// registering itself.
var loopRegistry sync.Map // goroutineID(uint64) -> *EventLoop

// EventLoop runs exactly one reactor iteration (poll, dispatch,
// drain-pending-tasks, run-due-timers) per cycle, repeated by Loop
// until Quit is called. It implements reactor.LoopHandle so Channels it
// owns can push interest-mask changes back through it.
type EventLoop struct {
	mux         reactor.Multiplexer
	wakeup      Wakeup
	wakeupChan  *reactor.Channel
	timers      *TimerQueue
	tasks       *pendingTaskQueue
	activeChans []*reactor.Channel

	looping             atomic.Bool
	quit                atomic.Bool
	callingPendingTasks atomic.Bool

	// goroutineID is zero while the loop is unbound (before Loop is
	// entered, after it returns). While unbound, any single goroutine
	// may set the loop up; thread-affinity asserts only bite once the
	// loop is running.
	goroutineID  atomic.Uint64
	pollReturnAt time.Time
}

// NewEventLoop constructs an EventLoop. The loop binds to whichever
// goroutine later calls Loop; until then it is safe to register
// channels and queue tasks from the constructing goroutine.
func NewEventLoop() (*EventLoop, error) {
	mux, err := newDefaultMultiplexer()
	if err != nil {
		return nil, err
	}
	wk, err := NewWakeup()
	if err != nil {
		return nil, err
	}

	el := &EventLoop{
		mux:    mux,
		wakeup: wk,
		tasks:  newPendingTaskQueue(),
	}

	timers, err := newTimerQueue(el)
	if err != nil {
		return nil, err
	}
	el.timers = timers

	el.wakeupChan = reactor.NewChannel(el, wk.FD())
	el.wakeupChan.SetReadCallback(func(time.Time) {
		el.wakeup.Drain()
	})
	el.wakeupChan.EnableReading()

	return el, nil
}

const pollTimeoutMs = 10000

// Loop runs the reactor until Quit is called. The calling goroutine
// becomes the loop's owning thread for the duration; calling Loop a
// second time, or on a goroutine already hosting another loop, panics.
func (el *EventLoop) Loop() {
	if !el.looping.CompareAndSwap(false, true) {
		panic(ErrAlreadyLooping)
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	gid := currentGoroutineID()
	if _, dup := loopRegistry.LoadOrStore(gid, el); dup {
		panic(ErrDuplicateLoop.With("goroutine", gid))
	}
	el.goroutineID.Store(gid)
	defer func() {
		el.goroutineID.Store(0)
		loopRegistry.Delete(gid)
	}()

	for !el.quit.Load() {
		el.activeChans = el.activeChans[:0]
		now, active, err := el.mux.Poll(pollTimeoutMs)
		el.pollReturnAt = now
		if err != nil {
			control.Default().Syserr("event loop: poll: %v", err)
			continue
		}
		el.activeChans = append(el.activeChans, active...)
		for _, ch := range el.activeChans {
			ch.HandleEvent(el.pollReturnAt)
		}
		el.runPendingTasks()
	}
}

// GetEventLoopOfCurrentThread returns the EventLoop running on the
// calling goroutine, or nil if the caller is not a loop goroutine.
func GetEventLoopOfCurrentThread() *EventLoop {
	if v, ok := loopRegistry.Load(currentGoroutineID()); ok {
		return v.(*EventLoop)
	}
	return nil
}

// Quit requests the loop stop at the end of its current iteration.
// Safe to call from any goroutine; if called from outside the loop, it
// wakes the loop so the request is observed promptly rather than after
// the next poll timeout.
func (el *EventLoop) Quit() {
	el.quit.Store(true)
	if !el.IsInLoopThread() {
		el.wakeup.Signal()
	}
}

// RunInLoop runs task immediately if called from the loop's own
// goroutine, or queues it for the next iteration otherwise.
func (el *EventLoop) RunInLoop(task Task) {
	if el.IsInLoopThread() {
		task()
		return
	}
	el.QueueInLoop(task)
}

// QueueInLoop always defers task to the loop's pending-task queue, even
// if called from the loop's own goroutine (so it runs after, not
// during, the current dispatch pass). Wakes the loop if the caller is
// on another goroutine, or if the loop is currently draining tasks: a
// task enqueued by another task would otherwise sit unprocessed behind
// the next blocking poll.
func (el *EventLoop) QueueInLoop(task Task) {
	wasEmpty := el.tasks.push(task)
	if !el.IsInLoopThread() || (wasEmpty && el.callingPendingTasks.Load()) {
		el.wakeup.Signal()
	}
}

func (el *EventLoop) runPendingTasks() {
	el.callingPendingTasks.Store(true)
	defer el.callingPendingTasks.Store(false)
	for _, t := range el.tasks.drain() {
		t()
	}
}

// RunAt, RunAfter, RunEvery and Cancel delegate to the loop's TimerQueue.
func (el *EventLoop) RunAt(at time.Time, cb TimerCallback) TimerId { return el.timers.RunAt(at, cb) }
func (el *EventLoop) RunAfter(d time.Duration, cb TimerCallback) TimerId {
	return el.timers.RunAfter(d, cb)
}
func (el *EventLoop) RunEvery(d time.Duration, cb TimerCallback) TimerId {
	return el.timers.RunEvery(d, cb)
}
func (el *EventLoop) Cancel(id TimerId) { el.timers.Cancel(id) }

// UpdateChannel implements reactor.LoopHandle.
func (el *EventLoop) UpdateChannel(c *reactor.Channel) {
	el.AssertInLoopThread()
	if err := el.mux.Update(c); err != nil {
		panic(fmt.Errorf("concurrency: UpdateChannel: %w", err))
	}
}

// RemoveChannel implements reactor.LoopHandle.
func (el *EventLoop) RemoveChannel(c *reactor.Channel) {
	el.AssertInLoopThread()
	if err := el.mux.Remove(c); err != nil {
		panic(fmt.Errorf("concurrency: RemoveChannel: %w", err))
	}
}

// HasChannel reports whether c is currently registered with this loop's
// Multiplexer.
func (el *EventLoop) HasChannel(c *reactor.Channel) bool {
	el.AssertInLoopThread()
	return el.mux.HasChannel(c)
}

// IsInLoopThread reports whether the caller is running on this loop's
// owning goroutine.
func (el *EventLoop) IsInLoopThread() bool {
	gid := el.goroutineID.Load()
	return gid != 0 && currentGoroutineID() == gid
}

// AssertInLoopThread implements reactor.LoopHandle; it panics rather
// than returning an error because violating loop affinity is a caller
// bug, not a recoverable runtime condition. While the loop is unbound
// (before Loop, after Loop returns) the assert passes, so the single
// goroutine setting the loop up or tearing it down is let through.
func (el *EventLoop) AssertInLoopThread() {
	owner := el.goroutineID.Load()
	if owner == 0 {
		return
	}
	if caller := currentGoroutineID(); caller != owner {
		panic(ErrNotLoopThread.With("caller", caller).With("owner", owner))
	}
}

// Close releases the loop's kernel resources. Call only after Loop has
// returned.
func (el *EventLoop) Close() error {
	el.timers.close()
	el.wakeup.Close()
	return el.mux.Close()
}

// currentGoroutineID parses the running goroutine's numeric id out of
// its own stack trace header ("goroutine 123 [running]:..."). Go
// deliberately exposes no cheaper stable goroutine identity.
func currentGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		c := buf[i]
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
	}
	return id
}
