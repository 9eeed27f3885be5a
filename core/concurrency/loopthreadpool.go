// File: core/concurrency/loopthreadpool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// LoopThreadPool is the worker-loop pool: a fixed-size set of
// EventLoops, each running on its own goroutine started by Start,
// handed out to callers round-robin or by hash so a given key always
// lands on the same worker loop.

package concurrency

import "sync"

// ThreadInitCallback runs on a worker loop's own goroutine immediately
// before that loop starts looping, e.g. to set up per-loop state.
type ThreadInitCallback func(loop *EventLoop)

// LoopThreadPool owns baseLoop (the caller's own loop, e.g. the
// Acceptor's) plus n additional worker EventLoops, each pinned to its
// own goroutine/OS thread.
type LoopThreadPool struct {
	baseLoop *EventLoop

	mu       sync.Mutex
	started  bool
	numLoops int
	loops    []*EventLoop
	next     int // round-robin cursor
	wg       sync.WaitGroup
}

// NewLoopThreadPool constructs a pool whose GetNextLoop/GetLoopForHash
// fall back to baseLoop until SetThreadNum and Start are called.
func NewLoopThreadPool(baseLoop *EventLoop) *LoopThreadPool {
	return &LoopThreadPool{baseLoop: baseLoop}
}

// SetThreadNum sets the worker count. Must be called before Start.
func (p *LoopThreadPool) SetThreadNum(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		panic(ErrPoolAlreadyStarted)
	}
	p.numLoops = n
}

// Start spawns one goroutine per worker loop, each running
// runtime.LockOSThread-pinned via EventLoop.Loop, and blocks until
// every worker has finished constructing its EventLoop (so GetNextLoop
// is safe to call as soon as Start returns). init, if non-nil, runs on
// each worker goroutine before that worker starts looping.
func (p *LoopThreadPool) Start(init ThreadInitCallback) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		panic(ErrPoolAlreadyStarted)
	}
	p.started = true
	n := p.numLoops
	p.mu.Unlock()

	if n == 0 {
		// No workers: everything lives on the base loop, which also
		// gets the init callback.
		if init != nil {
			init(p.baseLoop)
		}
		return nil
	}

	ready := make(chan error, n)
	loops := make([]*EventLoop, n)

	for i := 0; i < n; i++ {
		i := i
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			loop, err := NewEventLoop()
			if err != nil {
				ready <- err
				return
			}
			loops[i] = loop
			ready <- nil
			if init != nil {
				init(loop)
			}
			loop.Loop()
		}()
	}

	for i := 0; i < n; i++ {
		if err := <-ready; err != nil {
			return err
		}
	}

	p.mu.Lock()
	p.loops = loops
	p.mu.Unlock()
	return nil
}

// GetNextLoop returns the next worker loop round-robin, or baseLoop if
// no workers were configured.
func (p *LoopThreadPool) GetNextLoop() *EventLoop {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.loops) == 0 {
		return p.baseLoop
	}
	loop := p.loops[p.next]
	p.next = (p.next + 1) % len(p.loops)
	return loop
}

// GetLoopForHash deterministically maps key to the same worker loop on
// every call, or baseLoop if no workers were configured.
func (p *LoopThreadPool) GetLoopForHash(key int) *EventLoop {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.loops) == 0 {
		return p.baseLoop
	}
	idx := key % len(p.loops)
	if idx < 0 {
		idx += len(p.loops)
	}
	return p.loops[idx]
}

// GetAllLoops returns every worker loop, or just baseLoop if no workers
// were configured.
func (p *LoopThreadPool) GetAllLoops() []*EventLoop {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.loops) == 0 {
		return []*EventLoop{p.baseLoop}
	}
	out := make([]*EventLoop, len(p.loops))
	copy(out, p.loops)
	return out
}

// Wait blocks until every worker loop's Loop has returned (i.e. every
// worker has been Quit and its goroutine has exited).
func (p *LoopThreadPool) Wait() {
	p.wg.Wait()
}
