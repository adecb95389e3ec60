package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/kin-core/internal/domain/services"
)

func newPathsCmd() *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "paths <source> <target>",
		Short: "Find connection paths between two entities",
		Long: `Finds every path between two entities within the hop bound. Entities may
be referenced by ID or by name.

Example:
  kin paths Steve Amazon --depth 4`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPaths(cmd, args[0], args[1], depth)
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", services.DefaultMaxDepth, "Maximum number of hops")

	return cmd
}

func runPaths(cmd *cobra.Command, source, target string, depth int) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		paths, _, err := d.EntityHandler.Paths(ctx, source, target, depth)
		if err != nil {
			return fmt.Errorf("finding paths: %w", err)
		}

		if len(paths) == 0 {
			fmt.Printf("No connection found between %s and %s within %d hops.\n", source, target, depth)
			return nil
		}

		fmt.Printf("Found %d paths:\n\n", len(paths))
		for i, path := range paths {
			steps := make([]string, 0, len(path))
			for j, hop := range path {
				if j == 0 {
					steps = append(steps, hop.EntityName)
					continue
				}
				steps = append(steps, fmt.Sprintf("-[%s]-> %s", hop.Relationship, hop.EntityName))
			}
			fmt.Printf("%d. %s (min confidence %.2f)\n", i+1, strings.Join(steps, " "), path.MinConfidence())
		}
		return nil
	})
}
