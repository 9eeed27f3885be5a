// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Monotonic counters for the reactor's hot paths: accepted
// connections, loop wakeups, timers fired. Counters are registered
// lazily and incremented lock-free; only registration takes the lock.

package control

import (
	"sync"
	"sync/atomic"
)

// MetricsRegistry holds named monotonic counters.
type MetricsRegistry struct {
	mu       sync.RWMutex
	counters map[string]*atomic.Int64
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		counters: make(map[string]*atomic.Int64),
	}
}

// Counter returns the counter registered under name, creating it on
// first use. The returned value is safe to Add from any goroutine.
func (mr *MetricsRegistry) Counter(name string) *atomic.Int64 {
	mr.mu.RLock()
	c, ok := mr.counters[name]
	mr.mu.RUnlock()
	if ok {
		return c
	}

	mr.mu.Lock()
	defer mr.mu.Unlock()
	if c, ok := mr.counters[name]; ok {
		return c
	}
	c = new(atomic.Int64)
	mr.counters[name] = c
	return c
}

// Snapshot returns the current value of every counter.
func (mr *MetricsRegistry) Snapshot() map[string]int64 {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]int64, len(mr.counters))
	for name, c := range mr.counters {
		out[name] = c.Load()
	}
	return out
}
