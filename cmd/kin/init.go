package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ersonp/kin-core/internal/infrastructure/config"
)

func newInitCmd() *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a kin graph in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(backend)
		},
	}

	cmd.Flags().StringVar(&backend, "backend", config.BackendJSONFile, "Store backend (jsonfile or sqlite)")

	return cmd
}

func runInit(backend string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	configFile := filepath.Join(cwd, config.DefaultConfigDir, config.DefaultConfigFile)
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("already initialized: %s exists", configFile)
	}

	cfg := config.Default(cwd)
	switch backend {
	case config.BackendJSONFile:
	case config.BackendSQLite:
		cfg.Store.Backend = config.BackendSQLite
		cfg.Store.Path = filepath.Join(cwd, config.DefaultConfigDir, "graph.db")
	default:
		return fmt.Errorf("unknown store backend %q", backend)
	}

	if err := config.Write(cwd, cfg); err != nil {
		return err
	}
	if cfg.Store.Backend == config.BackendJSONFile {
		if err := os.MkdirAll(cfg.Store.Path, 0o755); err != nil {
			return fmt.Errorf("creating graph directory: %w", err)
		}
	}

	fmt.Printf("Initialized kin graph (%s backend) in %s\n", cfg.Store.Backend, filepath.Join(cwd, config.DefaultConfigDir))
	return nil
}
