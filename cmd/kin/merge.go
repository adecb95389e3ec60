package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/kin-core/internal/application/handlers"
	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/domain/services"
)

func newMergeCmd() *cobra.Command {
	var (
		basePath     string
		incomingPath string
		outputPath   string
		selfEntity   bool
	)

	cmd := &cobra.Command{
		Use:   "merge --base <path> --incoming <path> [--output <path>]",
		Short: "Merge an incoming entity record into a base record",
		Long: `Reconciles two JSON entity records that describe the same real-world
entity. The merged record is written to --output (default: the base file is
overwritten) and a one-line summary is printed.

Fails when identity resolution decides the records describe different
entities.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(basePath, incomingPath, outputPath, selfEntity)
		},
	}

	cmd.Flags().StringVar(&basePath, "base", "", "Path to the base entity record (required)")
	cmd.Flags().StringVar(&incomingPath, "incoming", "", "Path to the incoming entity record (required)")
	cmd.Flags().StringVar(&outputPath, "output", "", "Path to write the merged record (default: overwrite --base)")
	cmd.Flags().BoolVar(&selfEntity, "self", false, "Treat the base record as the graph's self entity")
	_ = cmd.MarkFlagRequired("base")
	_ = cmd.MarkFlagRequired("incoming")

	return cmd
}

func runMerge(basePath, incomingPath, outputPath string, selfEntity bool) error {
	base, err := readEntityFile(basePath)
	if err != nil {
		return err
	}
	incoming, err := readEntityFile(incomingPath)
	if err != nil {
		return err
	}

	handler := handlers.NewMergeHandler(services.NewMerger(nil))
	merged, summary, err := handler.Handle(base, incoming, services.MergeOptions{
		IsSelfEntity: selfEntity,
		SourceName:   incomingPath,
	})
	if errors.Is(err, services.ErrEntitiesDoNotMatch) {
		return errors.New("Entities do not match")
	}
	if err != nil {
		return fmt.Errorf("merging entities: %w", err)
	}

	if outputPath == "" {
		outputPath = basePath
	}
	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling merged entity: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("writing merged entity: %w", err)
	}

	fmt.Println(formatMergeSummary(summary))
	return nil
}

func formatMergeSummary(s *handlers.MergeSummary) string {
	return fmt.Sprintf("Merged %s (%s): %d attributes, %d relationships, %d facts, %d sources, %d changes",
		s.Name, s.EntityID, s.AttributeCount, s.RelationshipCount, s.FactCount, s.SourceCount, s.ChangeCount)
}

func readEntityFile(path string) (*entities.Entity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading entity file %s: %w", path, err)
	}
	var e entities.Entity
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("parsing entity file %s: %w", path, err)
	}
	return &e, nil
}
