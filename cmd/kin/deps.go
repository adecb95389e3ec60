package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ersonp/kin-core/internal/application/handlers"
	"github.com/ersonp/kin-core/internal/domain/ports"
	"github.com/ersonp/kin-core/internal/domain/services"
	"github.com/ersonp/kin-core/internal/infrastructure/config"
	llm "github.com/ersonp/kin-core/internal/infrastructure/llm/openai"
	"github.com/ersonp/kin-core/internal/infrastructure/store/jsonfile"
	"github.com/ersonp/kin-core/internal/infrastructure/store/sqlite"
)

// Deps holds high-level dependencies for commands.
type Deps struct {
	Config        *config.Config
	Store         ports.EntityStore
	MergeHandler  *handlers.MergeHandler
	IngestHandler *handlers.IngestHandler
	QueryHandler  *handlers.QueryHandler
	EntityHandler *handlers.EntityHandler
}

// withDeps loads config, builds dependencies, calls fn, and cleans up.
func withDeps(fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	categories := services.DefaultCategories()
	for name, keywords := range cfg.Categories {
		categories[name] = keywords
	}

	// The external classifier is optional: without an API key, UNKNOWN
	// questions simply stay UNKNOWN.
	var classifier ports.Classifier
	if cfg.LLM.APIKey != "" {
		client, err := llm.NewClient(cfg.LLM)
		if err != nil {
			return fmt.Errorf("creating llm client: %w", err)
		}
		classifier = client
	}

	logger := zap.NewNop()
	if os.Getenv("KIN_DEBUG") != "" {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()
	}

	self := services.NewSelfResolver(store, cfg.Store.Path, cfg.SelfEntityID)
	merger := services.NewMerger(categories)

	deps := &Deps{
		Config:        cfg,
		Store:         store,
		MergeHandler:  handlers.NewMergeHandler(merger),
		IngestHandler: handlers.NewIngestHandler(store, merger, self),
		QueryHandler:  handlers.NewQueryHandler(store, classifier, self, categories, logger),
		EntityHandler: handlers.NewEntityHandler(store),
	}

	return fn(deps)
}

func openStore(cfg *config.Config) (ports.EntityStore, error) {
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		store, err := sqlite.NewRepository(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("creating sqlite store: %w", err)
		}
		return store, nil
	case config.BackendJSONFile, "":
		store, err := jsonfile.NewRepository(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("creating jsonfile store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
