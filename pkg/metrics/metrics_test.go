package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/zylix-dev/zylix/pkg/fiber"
	"github.com/zylix-dev/zylix/pkg/vdom"
)

// Compile-time interface checks: the recorder must satisfy both sinks.
var (
	_ vdom.MetricsSink  = (*Recorder)(nil)
	_ fiber.MetricsSink = (*Recorder)(nil)
)

func newTestRecorder() *Recorder {
	return NewRecorder(WithRegistry(prometheus.NewRegistry()))
}

func TestObserveCommit(t *testing.T) {
	r := newTestRecorder()
	r.ObserveCommit(2*time.Millisecond, 10, 1)
	r.ObserveCommit(1*time.Millisecond, 5, 0)

	if got := testutil.ToFloat64(r.patchesTotal); got != 15 {
		t.Errorf("patches_total = %v, want 15", got)
	}
	if got := testutil.ToFloat64(r.patchesDropped); got != 1 {
		t.Errorf("patches_dropped_total = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(r.commitDuration); got != 1 {
		t.Errorf("commit histogram collected %d series, want 1", got)
	}
}

func TestObserveCache(t *testing.T) {
	r := newTestRecorder()
	r.ObserveCache(7, 3)
	if got := testutil.ToFloat64(r.diffCacheHits); got != 7 {
		t.Errorf("cache hits = %v, want 7", got)
	}
	if got := testutil.ToFloat64(r.diffCacheMisses); got != 3 {
		t.Errorf("cache misses = %v, want 3", got)
	}
}

func TestObserveFrame(t *testing.T) {
	r := newTestRecorder()
	r.ObserveFrame(time.Millisecond, 12, true)
	r.ObserveFrame(time.Millisecond, 4, false)

	if got := testutil.ToFloat64(r.fibersProcessed); got != 16 {
		t.Errorf("fibers_processed_total = %v, want 16", got)
	}
	if got := testutil.ToFloat64(r.frameYields); got != 1 {
		t.Errorf("frame_yields_total = %v, want 1", got)
	}
}

func TestObserveQueueDepth(t *testing.T) {
	r := newTestRecorder()
	r.ObserveQueueDepth(fiber.PriorityImmediate, 4)
	r.ObserveQueueDepth(fiber.PriorityIdle, 0)

	if got := testutil.ToFloat64(r.queueDepth.WithLabelValues("Immediate")); got != 4 {
		t.Errorf("queue depth (Immediate) = %v, want 4", got)
	}
}

func TestCustomNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(WithRegistry(reg), WithNamespace("app"), WithSubsystem("ui"))
	r.ObserveCommit(time.Millisecond, 1, 0)

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "app_ui_patches_total" {
			found = true
		}
	}
	if !found {
		t.Error("namespaced metric app_ui_patches_total not registered")
	}
}
