package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "zylix",
		Short: "Reconciliation core tooling",
		Long: `Zylix is the reconciliation core of a cross-platform UI runtime.

This tool exercises the core from the outside:

  • bench    run synthetic reconciliation workloads and report throughput
  • inspect  serve a live patch-frame stream with metrics for debugging`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		benchCmd(),
		inspectCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}
