package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newEntitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entities",
		Short: "Manage entity records",
	}

	cmd.AddCommand(newEntitiesListCmd(), newEntitiesShowCmd(), newEntitiesFilterCmd())
	return cmd
}

func newEntitiesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all entities in the graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(func(d *Deps) error {
				all, err := d.EntityHandler.List(ctx, globalSpoke)
				if err != nil {
					return fmt.Errorf("listing entities: %w", err)
				}
				if len(all) == 0 {
					fmt.Println("No entities in the graph.")
					return nil
				}
				for _, e := range all {
					fmt.Printf("%s  %-12s  %s\n", e.ID, e.Type, e.DisplayName())
				}
				return nil
			})
		},
	}
}

func newEntitiesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <entity-id>",
		Short: "Print one entity record as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withDeps(func(d *Deps) error {
				e, err := d.EntityHandler.Get(ctx, args[0])
				if err != nil {
					return fmt.Errorf("loading entity: %w", err)
				}
				if e == nil {
					return fmt.Errorf("entity not found: %s", args[0])
				}
				data, err := json.MarshalIndent(e, "", "  ")
				if err != nil {
					return fmt.Errorf("marshaling entity: %w", err)
				}
				fmt.Println(string(data))
				return nil
			})
		},
	}
}

func newEntitiesFilterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filter <key=value>...",
		Short: "Filter entities by type, name or attribute values",
		Long: `Filters entities with AND semantics. "type" compares exactly, "name" by
substring; any other key is matched against the entity's flattened
attributes.

Examples:
  kin entities filter type=person location=Seattle
  kin entities filter name=Hughes
  kin entities filter attributes.company=Amazon`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := make(map[string]string, len(args))
			for _, arg := range args {
				key, value, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("invalid filter %q, expected key=value", arg)
				}
				filters[key] = value
			}

			ctx := cmd.Context()
			return withDeps(func(d *Deps) error {
				matched, err := d.EntityHandler.Filter(ctx, filters)
				if err != nil {
					return fmt.Errorf("filtering entities: %w", err)
				}
				if len(matched) == 0 {
					fmt.Println("No entities matched.")
					return nil
				}
				for _, e := range matched {
					fmt.Printf("%s  %-12s  %s\n", e.ID, e.Type, e.DisplayName())
				}
				return nil
			})
		},
	}
}
