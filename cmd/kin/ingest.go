package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <file.json>",
		Short: "Fold a draft entity record into the graph",
		Long: `Reads an extracted entity record and merges it into the matching
existing entity, or creates a new record when identity resolution finds no
match.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, args[0])
		},
	}
	return cmd
}

func runIngest(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()

	incoming, err := readEntityFile(path)
	if err != nil {
		return err
	}

	return withDeps(func(d *Deps) error {
		result, err := d.IngestHandler.Handle(ctx, incoming, filepath.Base(path))
		if err != nil {
			return fmt.Errorf("ingesting entity: %w", err)
		}

		if result.Created {
			fmt.Printf("Created new entity %s (%s)\n", result.Entity.DisplayName(), result.Entity.ID)
			return nil
		}
		fmt.Printf("Merged into existing entity %s (%s): %d changes\n",
			result.Entity.DisplayName(), result.Entity.ID, result.ChangeCount)
		return nil
	})
}
