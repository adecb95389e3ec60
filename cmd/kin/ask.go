package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a natural-language question about the graph",
		Long: `Classifies the question, resolves the entities it mentions, runs the
appropriate graph operation and prints a synthesized answer.

Examples:
  kin ask "Who is Steve Hughes?"
  kin ask "How does Steve connect to Amazon?"
  kin ask "How many people are in my graph?"
  kin ask "What am I missing about Steve?"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full query result envelope as JSON")

	return cmd
}

func runAsk(cmd *cobra.Command, question string, asJSON bool) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		result, err := d.QueryHandler.Ask(ctx, question)
		if err != nil {
			return fmt.Errorf("answering question: %w", err)
		}

		if asJSON {
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling result: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Println(result.Answer)
		fmt.Printf("\n[%s | confidence %.2f | %dms]\n",
			result.Query.Type, result.Confidence, result.Timing.TotalMS)
		return nil
	})
}
