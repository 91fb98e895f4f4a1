package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zylix-dev/zylix/internal/report"
	"github.com/zylix-dev/zylix/internal/sim"
	"github.com/zylix-dev/zylix/pkg/fiber"
	"github.com/zylix-dev/zylix/pkg/protocol"
	"github.com/zylix-dev/zylix/pkg/vdom"
)

// benchSink accumulates measurements in memory for the final report.
type benchSink struct {
	patches     int
	dropped     int
	cacheHits   uint64
	cacheMisses uint64
	fibersRun   int
	yields      int
}

func (s *benchSink) ObserveCommit(_ time.Duration, patches, dropped int) {
	s.patches += patches
	s.dropped += dropped
}

func (s *benchSink) ObserveCache(hits, misses uint64) {
	s.cacheHits += hits
	s.cacheMisses += misses
}

func (s *benchSink) ObserveFrame(_ time.Duration, processed int, yielded bool) {
	s.fibersRun += processed
	if yielded {
		s.yields++
	}
}

func (s *benchSink) ObserveQueueDepth(fiber.Priority, int) {}

func benchCmd() *cobra.Command {
	var (
		rows     int
		steps    int
		seed     int64
		asJSON   bool
		s3Bucket string
		s3Region string
		s3Prefix string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run a synthetic reconciliation workload",
		Long: `Bench drives a seeded row-table workload through the reconciler, the
fiber renderer, and the wire codec, and reports throughput. With --s3-bucket
the JSON report is also uploaded (credentials from the environment).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep := runBench(rows, steps, seed)

			if asJSON {
				data, err := rep.JSON()
				if err != nil {
					return err
				}
				fmt.Println(string(data))
			} else {
				printReport(rep)
			}

			if s3Bucket != "" {
				uploader := report.NewUploader(s3Bucket, s3Region, s3Prefix)
				key, err := uploader.Upload(cmd.Context(), rep)
				if err != nil {
					return err
				}
				fmt.Printf("uploaded to s3://%s/%s\n", s3Bucket, key)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 24, "workload row count")
	cmd.Flags().IntVar(&steps, "steps", 10000, "number of commit cycles")
	cmd.Flags().Int64Var(&seed, "seed", 1, "workload seed")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().StringVar(&s3Bucket, "s3-bucket", "", "upload the report to this S3 bucket")
	cmd.Flags().StringVar(&s3Region, "s3-region", "us-east-1", "S3 bucket region")
	cmd.Flags().StringVar(&s3Prefix, "s3-prefix", "zylix/", "S3 key prefix")
	return cmd
}

func runBench(rows, steps int, seed int64) *report.Report {
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	sink := &benchSink{}

	rec := vdom.NewReconciler(vdom.WithLogger(quiet), vdom.WithMetrics(sink))
	renderer := fiber.NewConcurrentRenderer(
		fiber.WithRendererLogger(quiet),
		fiber.WithRendererMetrics(sink),
	)
	workload := sim.NewWorkload(rows, seed)
	enc := protocol.NewEncoder()

	rep := &report.Report{
		StartedAt: time.Now(),
		Rows:      rows,
		Steps:     steps,
		Seed:      seed,
	}

	start := time.Now()
	var seq uint64
	for i := 0; i < steps; i++ {
		if workload.Build(rec.Next()) == vdom.NoNode {
			workload.Advance()
			continue
		}
		result := rec.Commit(context.Background())
		rep.Commits++

		if renderer.RequestRender(rec.Current(), fiber.LaneConcurrent) {
			for {
				if _, yielded := renderer.ProcessUntilYield(); !yielded {
					break
				}
			}
			renderer.Commit()
		}

		seq++
		enc.Reset()
		protocol.EncodeFrameTo(enc, &protocol.PatchFrame{Seq: seq, Patches: result.Patches()})
		rep.WireBytes += enc.Len()

		workload.Advance()
	}
	rep.Elapsed = time.Since(start)

	rep.Patches = sink.patches
	rep.Dropped = sink.dropped
	rep.CacheHits = sink.cacheHits
	rep.CacheMisses = sink.cacheMisses
	rep.FibersRun = sink.fibersRun
	rep.Yields = sink.yields
	return rep
}

func printReport(rep *report.Report) {
	w := os.Stdout
	fmt.Fprintf(w, "rows:          %d\n", rep.Rows)
	fmt.Fprintf(w, "steps:         %d\n", rep.Steps)
	fmt.Fprintf(w, "commits:       %d\n", rep.Commits)
	fmt.Fprintf(w, "elapsed:       %s\n", rep.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "commits/sec:   %.0f\n", rep.CommitsPerSecond())
	fmt.Fprintf(w, "patches:       %d (%d dropped)\n", rep.Patches, rep.Dropped)
	fmt.Fprintf(w, "cache:         %d hits / %d misses\n", rep.CacheHits, rep.CacheMisses)
	fmt.Fprintf(w, "fibers run:    %d (%d yields)\n", rep.FibersRun, rep.Yields)
	fmt.Fprintf(w, "wire bytes:    %d\n", rep.WireBytes)
}
