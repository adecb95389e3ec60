package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/kin-core/internal/domain/services"
)

func newNeighborsCmd() *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "neighbors <entity>",
		Short: "Show the entities around one entity, ring by ring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNeighbors(cmd, args[0], depth)
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", services.DefaultNeighborhoodDepth, "Traversal depth")

	return cmd
}

func runNeighbors(cmd *cobra.Command, ref string, depth int) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		hood, idx, err := d.EntityHandler.Neighborhood(ctx, ref, depth)
		if err != nil {
			return fmt.Errorf("collecting neighborhood: %w", err)
		}

		fmt.Printf("Neighborhood of %s:\n", idx.DisplayName(hood.Center))
		if len(hood.Rings) == 0 {
			fmt.Println("  (no connected entities)")
			return nil
		}

		for i, ring := range hood.Rings {
			fmt.Printf("\nDepth %d (%d entities):\n", i+1, len(ring))
			for _, n := range ring {
				fmt.Printf("  %s  via %s (%s)\n", n.EntityName, idx.DisplayName(n.FoundVia), n.Relationship)
			}
		}
		return nil
	})
}
