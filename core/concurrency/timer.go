// File: core/concurrency/timer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Timer entries for the TimerQueue heap: expiration, interval, repeat
// flag, ordered by (expireAt, sequence).

package concurrency

import "time"

// TimerId identifies a scheduled timer for cancellation. It is only ever
// compared for equality against ids previously returned by RunAt,
// RunAfter or RunEvery; it carries no other meaning to callers.
type TimerId int64

// TimerCallback is the task run when a timer fires.
type TimerCallback func()

type timerEntry struct {
	expireAt time.Time
	interval time.Duration // 0 for one-shot
	repeat   bool
	id       TimerId
	seq      int64 // tiebreaker for entries sharing expireAt
	cb       TimerCallback
}

func (t *timerEntry) restart(now time.Time) {
	if t.repeat {
		t.expireAt = now.Add(t.interval)
	} else {
		t.expireAt = time.Time{}
	}
}

// timerHeap implements container/heap.Interface ordered by
// (expireAt, seq): expiration first, insertion sequence as tiebreak so
// two timers due at the same instant fire in the order they were added.
type timerHeap []*timerEntry

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if !h[i].expireAt.Equal(h[j].expireAt) {
		return h[i].expireAt.Before(h[j].expireAt)
	}
	return h[i].seq < h[j].seq
}

func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x any) {
	*h = append(*h, x.(*timerEntry))
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
