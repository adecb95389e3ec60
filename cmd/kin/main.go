// Package main provides the entry point for the kin CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version     = "0.1.0-dev"
	globalSpoke string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "kin",
		Short:   "A personal knowledge graph of people, organizations and their relationships",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVarP(&globalSpoke, "spoke", "s", "", "Sub-collection to operate on (default: whole graph)")

	rootCmd.AddCommand(
		newInitCmd(),
		newMergeCmd(),
		newIngestCmd(),
		newAskCmd(),
		newSearchCmd(),
		newEntitiesCmd(),
		newPathsCmd(),
		newNeighborsCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
