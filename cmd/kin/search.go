package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/domain/services"
)

func newSearchCmd() *cobra.Command {
	var (
		limit         int
		entityType    string
		minConfidence float64
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy-search entities by name, alias or attribute",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args[0], entityType, limit, minConfidence)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", services.DefaultSearchLimit, "Maximum number of results")
	cmd.Flags().StringVarP(&entityType, "type", "t", "", "Filter by entity type (person, business, organization, ...)")
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0, "Minimum match score")

	return cmd
}

func runSearch(cmd *cobra.Command, query, entityType string, limit int, minConfidence float64) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		hits, err := d.EntityHandler.Search(ctx, query, services.SearchOptions{
			Type:          entities.EntityType(entityType),
			Limit:         limit,
			MinConfidence: minConfidence,
		})
		if err != nil {
			return fmt.Errorf("searching entities: %w", err)
		}

		if len(hits) == 0 {
			fmt.Println("No entities found.")
			return nil
		}

		fmt.Printf("Found %d entities:\n\n", len(hits))
		for i, hit := range hits {
			fmt.Printf("%d. %s (%s) score %.2f\n", i+1, hit.Entity.DisplayName(), hit.Entity.ID, hit.Score)
			if hit.Entity.Type != "" {
				fmt.Printf("   Type: %s\n", hit.Entity.Type)
			}
		}
		return nil
	})
}
