// Package jsonfile provides an EntityStore keeping one pretty-printed JSON
// document per entity in a graph directory. Spokes are subdirectories.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ersonp/kin-core/internal/domain/entities"
)

// Repository implements ports.EntityStore on the filesystem.
type Repository struct {
	dir string
}

// NewRepository creates a jsonfile repository rooted at dir, creating the
// directory if needed.
func NewRepository(dir string) (*Repository, error) {
	if dir == "" {
		return nil, errors.New("graph directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating graph directory: %w", err)
	}
	return &Repository{dir: dir}, nil
}

// List returns every entity record under the graph directory, sorted by ID
// for deterministic iteration. An empty spoke lists the whole graph.
func (r *Repository) List(ctx context.Context, spoke string) ([]*entities.Entity, error) {
	root := r.dir
	if spoke != "" {
		root = filepath.Join(r.dir, spoke)
		if _, err := os.Stat(root); os.IsNotExist(err) {
			return nil, nil
		}
	}

	var all []*entities.Entity
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		e, err := readEntity(path)
		if err != nil {
			return err
		}
		all = append(all, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking graph directory: %w", err)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

// Get retrieves a single entity by ID. A missing record returns (nil, nil).
func (r *Repository) Get(ctx context.Context, entityID string) (*entities.Entity, error) {
	path, err := r.find(entityID)
	if err != nil || path == "" {
		return nil, err
	}
	return readEntity(path)
}

// Save writes an entity record as pretty-printed JSON, overwriting any
// existing record with the same ID (wherever it lives in the tree).
func (r *Repository) Save(ctx context.Context, entity *entities.Entity) error {
	if entity.ID == "" {
		return errors.New("entity_id is required")
	}

	path, err := r.find(entity.ID)
	if err != nil {
		return err
	}
	if path == "" {
		path = filepath.Join(r.dir, entity.ID+".json")
	}

	data, err := json.MarshalIndent(entity, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling entity %s: %w", entity.ID, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing entity %s: %w", entity.ID, err)
	}
	return nil
}

// Close is a no-op for the filesystem backend.
func (r *Repository) Close() error { return nil }

// find locates the file holding an entity ID, or "" when absent.
func (r *Repository) find(entityID string) (string, error) {
	var found string
	err := filepath.WalkDir(r.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if d.Name() == entityID+".json" {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("searching graph directory: %w", err)
	}
	return found, nil
}

func readEntity(path string) (*entities.Entity, error) {
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
