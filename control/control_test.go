// Author: momentics <momentics@gmail.com>

package control

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestConfigStoreSnapshotIsolation(t *testing.T) {
	cs := NewConfigStore(Config{ListenPort: 9002})

	snap := cs.Snapshot()
	snap.ListenPort = 1

	if got := cs.Snapshot().ListenPort; got != 9002 {
		t.Fatalf("mutating a snapshot leaked into the store: got %v", got)
	}
}

func TestConfigStoreUpdateNotifiesListeners(t *testing.T) {
	cs := NewConfigStore(DefaultConfig())

	var seen []Config
	cs.OnReload(func(c Config) { seen = append(seen, c) })

	cs.Update(func(c *Config) { c.Workers = 4 })
	cs.Update(func(c *Config) { c.ReadBufferBytes = 8192 })

	if len(seen) != 2 {
		t.Fatalf("got %d notifications, want 2", len(seen))
	}
	if seen[0].Workers != 4 {
		t.Fatalf("first snapshot Workers = %d, want 4", seen[0].Workers)
	}
	if seen[1].Workers != 4 || seen[1].ReadBufferBytes != 8192 {
		t.Fatalf("second snapshot should accumulate both updates: %+v", seen[1])
	}
}

func TestHotReloadGlobalStore(t *testing.T) {
	var got Config
	RegisterReloadHook(func(c Config) { got = c })
	TriggerHotReload(func(c *Config) { c.PollTimeoutMs = 500 })
	if got.PollTimeoutMs != 500 {
		t.Fatalf("hook saw PollTimeoutMs = %d, want 500", got.PollTimeoutMs)
	}
	if Global().Snapshot().PollTimeoutMs != 500 {
		t.Fatal("global store did not retain the update")
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	lg := &Logger{min: LevelWarn, out: log.New(&buf, "", 0)}

	lg.Trace("dropped %d", 1)
	lg.Info("dropped %d", 2)
	lg.Warn("kept %d", 3)
	lg.Error("kept %d", 4)

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("below-threshold entries were logged: %q", out)
	}
	if !strings.Contains(out, "[WARN] kept 3") || !strings.Contains(out, "[ERROR] kept 4") {
		t.Fatalf("expected WARN and ERROR entries, got: %q", out)
	}
}

func TestProbeRegistryCollect(t *testing.T) {
	pr := NewProbeRegistry()
	pr.Register("answer", func() any { return 42 })
	state := pr.Collect()
	if state["answer"] != 42 {
		t.Fatalf("got %v, want 42", state["answer"])
	}
}

func TestMetricsCounterAndSnapshot(t *testing.T) {
	mr := NewMetricsRegistry()
	mr.Counter("accepted.total").Add(7)
	if mr.Counter("accepted.total").Load() != 7 {
		t.Fatal("Counter did not return the same counter on second lookup")
	}

	snap := mr.Snapshot()
	if snap["accepted.total"] != 7 {
		t.Fatalf("got %v, want 7", snap["accepted.total"])
	}

	pr := NewProbeRegistry()
	pr.AttachMetrics("metrics", mr)
	got := pr.Collect()["metrics"].(map[string]int64)
	if got["accepted.total"] != 7 {
		t.Fatalf("probe snapshot got %v, want 7", got["accepted.total"])
	}
}
