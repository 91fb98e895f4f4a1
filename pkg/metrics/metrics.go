// Package metrics exposes Prometheus collectors for the reconciler and the
// fiber scheduler. A Recorder implements both sinks, so one instance can be
// handed to a Reconciler and a ConcurrentRenderer and registered once.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/zylix-dev/zylix/pkg/fiber"
)

// Config configures the Prometheus collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "zylix").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// CommitBuckets are the histogram buckets for commit duration in
	// seconds. Default: sub-frame buckets from 100µs to 100ms.
	CommitBuckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// Option configures the Prometheus collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithCommitBuckets sets the commit duration histogram buckets.
func WithCommitBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.CommitBuckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace:     "zylix",
		CommitBuckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1},
		Registry:      prometheus.DefaultRegisterer,
	}
}

// Recorder holds the Prometheus collectors. It satisfies both the
// reconciler's and the renderer's metrics sink interfaces.
type Recorder struct {
	commitDuration  prometheus.Histogram
	patchesTotal    prometheus.Counter
	patchesDropped  prometheus.Counter
	diffCacheHits   prometheus.Counter
	diffCacheMisses prometheus.Counter

	frameDuration   prometheus.Histogram
	fibersProcessed prometheus.Counter
	frameYields     prometheus.Counter
	queueDepth      *prometheus.GaugeVec
}

// NewRecorder creates and registers the collectors.
//
// Metrics exposed (with the default namespace):
//   - zylix_commit_duration_seconds: Histogram of diff+swap duration
//   - zylix_patches_total: Counter of patches emitted by commits
//   - zylix_patches_dropped_total: Counter of patches dropped at capacity
//   - zylix_diff_cache_hits_total / _misses_total: Verdict cache traffic
//   - zylix_frame_duration_seconds: Histogram of work-loop frame duration
//   - zylix_fibers_processed_total: Counter of fibers run to completion
//   - zylix_frame_yields_total: Counter of frames ending in a yield
//   - zylix_fiber_queue_depth: Gauge of queued fibers by priority
func NewRecorder(opts ...Option) *Recorder {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Recorder{
		commitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commit_duration_seconds",
			Help:        "Duration of one reconciler commit (diff plus swap)",
			ConstLabels: config.ConstLabels,
			Buckets:     config.CommitBuckets,
		}),

		patchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_total",
			Help:        "Total patches emitted by commits",
			ConstLabels: config.ConstLabels,
		}),

		patchesDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_dropped_total",
			Help:        "Total patches dropped at the per-pass capacity",
			ConstLabels: config.ConstLabels,
		}),

		diffCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "diff_cache_hits_total",
			Help:        "Diff verdict cache hits",
			ConstLabels: config.ConstLabels,
		}),

		diffCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "diff_cache_misses_total",
			Help:        "Diff verdict cache misses",
			ConstLabels: config.ConstLabels,
		}),

		frameDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frame_duration_seconds",
			Help:        "Duration of one scheduler work-loop frame",
			ConstLabels: config.ConstLabels,
			Buckets:     config.CommitBuckets,
		}),

		fibersProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "fibers_processed_total",
			Help:        "Fibers run to completion by the work loop",
			ConstLabels: config.ConstLabels,
		}),

		frameYields: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "frame_yields_total",
			Help:        "Work-loop frames that ended in a budget yield",
			ConstLabels: config.ConstLabels,
		}),

		queueDepth: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "fiber_queue_depth",
			Help:        "Fibers currently queued, by priority",
			ConstLabels: config.ConstLabels,
		}, []string{"priority"}),
	}
}

// ObserveCommit records one reconciler commit.
func (r *Recorder) ObserveCommit(d time.Duration, patches int, dropped int) {
	r.commitDuration.Observe(d.Seconds())
	r.patchesTotal.Add(float64(patches))
	r.patchesDropped.Add(float64(dropped))
}

// ObserveCache records one commit's verdict cache traffic.
func (r *Recorder) ObserveCache(hits, misses uint64) {
	r.diffCacheHits.Add(float64(hits))
	r.diffCacheMisses.Add(float64(misses))
}

// ObserveFrame records one work-loop frame.
func (r *Recorder) ObserveFrame(d time.Duration, processed int, yielded bool) {
	r.frameDuration.Observe(d.Seconds())
	r.fibersProcessed.Add(float64(processed))
	if yielded {
		r.frameYields.Inc()
	}
}

// ObserveQueueDepth records the queue depth for one priority.
func (r *Recorder) ObserveQueueDepth(p fiber.Priority, depth int) {
	r.queueDepth.WithLabelValues(p.String()).Set(float64(depth))
}
