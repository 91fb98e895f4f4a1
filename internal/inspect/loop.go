package inspect

import (
	"context"
	"log/slog"
	"time"

	"github.com/zylix-dev/zylix/internal/sim"
	"github.com/zylix-dev/zylix/pkg/fiber"
	"github.com/zylix-dev/zylix/pkg/protocol"
	"github.com/zylix-dev/zylix/pkg/vdom"
)

// Loop drives a synthetic workload through the reconciler and renderer at a
// fixed interval and broadcasts each commit's encoded patch frame. It plays
// the application side of the boundary so the inspector has live traffic to
// show.
type Loop struct {
	workload *sim.Workload
	rec      *vdom.Reconciler
	renderer *fiber.ConcurrentRenderer
	enc      *protocol.Encoder
	hub      *Hub
	history  *FrameHistory
	interval time.Duration
	seq      uint64
	log      *slog.Logger
}

// LoopConfig configures a Loop.
type LoopConfig struct {
	Rows     int           // workload row count
	Seed     int64         // workload seed
	Interval time.Duration // time between commits
	Logger   *slog.Logger
	Metrics  interface {
		vdom.MetricsSink
		fiber.MetricsSink
	} // optional; nil disables recording
}

// NewLoop creates a loop publishing to hub and recording into history.
func NewLoop(cfg LoopConfig, hub *Hub, history *FrameHistory) *Loop {
	if cfg.Rows < 1 {
		cfg.Rows = 16
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 100 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	recOpts := []vdom.ReconcilerOption{vdom.WithLogger(cfg.Logger)}
	rendOpts := []fiber.RendererOption{fiber.WithRendererLogger(cfg.Logger)}
	if cfg.Metrics != nil {
		recOpts = append(recOpts, vdom.WithMetrics(cfg.Metrics))
		rendOpts = append(rendOpts, fiber.WithRendererMetrics(cfg.Metrics))
	}

	return &Loop{
		workload: sim.NewWorkload(cfg.Rows, cfg.Seed),
		rec:      vdom.NewReconciler(recOpts...),
		renderer: fiber.NewConcurrentRenderer(rendOpts...),
		enc:      protocol.NewEncoder(),
		hub:      hub,
		history:  history,
		interval: cfg.Interval,
		log:      cfg.Logger,
	}
}

// Run ticks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.tick()
		}
	}
}

// tick produces one generation: build, commit, walk, encode, broadcast.
func (l *Loop) tick() {
	if l.workload.Build(l.rec.Next()) == vdom.NoNode {
		l.log.Warn("workload build overflowed the tree, skipping step")
		l.workload.Advance()
		return
	}
	l.rec.Commit(context.Background())

	// Walk the committed generation through the fiber renderer so queue
	// depth and frame metrics reflect live traffic.
	if l.renderer.RequestRender(l.rec.Current(), fiber.LaneConcurrent) {
		for {
			_, yielded := l.renderer.ProcessUntilYield()
			if !yielded {
				break
			}
		}
		l.renderer.Commit()
	}

	l.seq++
	frame := l.encodeFrame()
	l.history.Add(frame)
	l.hub.Publish(frame)
	l.workload.Advance()
}

// encodeFrame encodes the last commit's patches in batch application order.
// The returned slice is a copy; the encoder buffer is reused across ticks.
func (l *Loop) encodeFrame() []byte {
	batch := l.rec.BatchPatches()
	patches := make([]vdom.Patch, 0, batch.Len())
	it := batch.Iter()
	for {
		p, ok := it.Next()
		if !ok {
			break
		}
		patches = append(patches, p)
	}

	l.enc.Reset()
	protocol.EncodeFrameTo(l.enc, &protocol.PatchFrame{Seq: l.seq, Patches: patches})
	return append([]byte(nil), l.enc.Bytes()...)
}

// Seq returns the last published sequence number.
func (l *Loop) Seq() uint64 {
	return l.seq
}
