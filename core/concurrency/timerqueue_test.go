// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestRunAfterFiresOnce(t *testing.T) {
	loop, stop := newRunningLoop(t)
	defer stop()

	fired := make(chan struct{}, 2)
	loop.RunAfter(20*time.Millisecond, func() {
		fired <- struct{}{}
	})

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}

	select {
	case <-fired:
		t.Fatal("one-shot timer fired twice")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRunEveryFiresRepeatedlyUntilCancelled(t *testing.T) {
	loop, stop := newRunningLoop(t)
	defer stop()

	var count atomic.Int64
	var id TimerId
	ready := make(chan struct{})
	loop.RunInLoop(func() {
		id = loop.RunEvery(15*time.Millisecond, func() {
			count.Add(1)
		})
		close(ready)
	})
	<-ready

	time.Sleep(200 * time.Millisecond)
	loop.Cancel(id)
	n := count.Load()
	if n < 3 {
		t.Fatalf("got %d fires in 200ms at 15ms interval, want >= 3", n)
	}

	time.Sleep(100 * time.Millisecond)
	if count.Load() != n {
		t.Fatalf("timer fired after Cancel: got %d, had %d", count.Load(), n)
	}
}

func TestTimersFireInExpirationOrder(t *testing.T) {
	loop, stop := newRunningLoop(t)
	defer stop()

	fireOrder := make(chan int, 3)

	loop.RunAfter(60*time.Millisecond, func() { fireOrder <- 3 })
	loop.RunAfter(10*time.Millisecond, func() { fireOrder <- 1 })
	loop.RunAfter(30*time.Millisecond, func() { fireOrder <- 2 })

	var got []int
	for i := 0; i < 3; i++ {
		select {
		case v := <-fireOrder:
			got = append(got, v)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for timers")
		}
	}
	for i, v := range got {
		if v != i+1 {
			t.Fatalf("got order %v, want [1 2 3]", got)
		}
	}
}

func TestCancelBeforeFireSuppressesTimer(t *testing.T) {
	loop, stop := newRunningLoop(t)
	defer stop()

	firedA := make(chan struct{}, 1)
	firedB := make(chan struct{}, 1)
	firedC := make(chan struct{}, 1)

	loop.RunAfter(50*time.Millisecond, func() { firedA <- struct{}{} })
	id := loop.RunAfter(100*time.Millisecond, func() { firedB <- struct{}{} })
	loop.Cancel(id)
	loop.RunAfter(150*time.Millisecond, func() { firedC <- struct{}{} })

	select {
	case <-firedA:
	case <-time.After(2 * time.Second):
		t.Fatal("first timer did not fire")
	}
	select {
	case <-firedC:
	case <-time.After(2 * time.Second):
		t.Fatal("third timer did not fire")
	}
	select {
	case <-firedB:
		t.Fatal("cancelled timer fired")
	default:
	}
}

func TestCancelUnknownIdIsNoop(t *testing.T) {
	loop, stop := newRunningLoop(t)
	defer stop()

	loop.Cancel(TimerId(999999))

	// The loop must still be healthy afterwards.
	ok := make(chan struct{})
	loop.QueueInLoop(func() { close(ok) })
	select {
	case <-ok:
	case <-time.After(2 * time.Second):
		t.Fatal("loop unhealthy after cancelling unknown id")
	}
}

func TestRepeatingTimerCancelledFromOwnCallback(t *testing.T) {
	loop, stop := newRunningLoop(t)
	defer stop()

	var count atomic.Int64
	done := make(chan struct{})
	loop.RunInLoop(func() {
		var id TimerId
		id = loop.RunEvery(10*time.Millisecond, func() {
			if count.Add(1) == 1 {
				loop.Cancel(id)
				close(done)
			}
		})
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
	time.Sleep(100 * time.Millisecond)
	if n := count.Load(); n != 1 {
		t.Fatalf("self-cancelled repeating timer fired %d times, want 1", n)
	}
}
