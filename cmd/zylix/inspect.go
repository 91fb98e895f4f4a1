package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zylix-dev/zylix/internal/inspect"
	"github.com/zylix-dev/zylix/pkg/metrics"
)

func inspectCmd() *cobra.Command {
	var (
		addr     string
		rows     int
		seed     int64
		interval time.Duration
		history  int
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Serve a live patch-frame stream",
		Long: `Inspect runs a synthetic workload through the reconciler and streams
each commit's encoded patch frame over /ws. Late joiners replay the buffered
frame window first. Prometheus metrics are exposed on /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(slog.NewTextHandler(os.Stderr, nil))

			hub := inspect.NewHub()
			frames := inspect.NewFrameHistory(history)
			recorder := metrics.NewRecorder()

			loop := inspect.NewLoop(inspect.LoopConfig{
				Rows:     rows,
				Seed:     seed,
				Interval: interval,
				Logger:   log,
				Metrics:  recorder,
			}, hub, frames)
			server := inspect.NewServer(addr, hub, frames, log)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			go loop.Run(ctx)
			return server.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8473", "listen address")
	cmd.Flags().IntVar(&rows, "rows", 16, "workload row count")
	cmd.Flags().Int64Var(&seed, "seed", 1, "workload seed")
	cmd.Flags().DurationVar(&interval, "interval", 100*time.Millisecond, "time between commits")
	cmd.Flags().IntVar(&history, "history", 64, "frames buffered for replay")
	return cmd
}
