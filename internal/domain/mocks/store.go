// Package mocks provides shared test doubles for the domain ports.
package mocks

import (
	"context"
	"sort"

	"github.com/ersonp/kin-core/internal/domain/entities"
)

// EntityStore is a mock implementation of ports.EntityStore backed by a map.
type EntityStore struct {
	Entities map[string]*entities.Entity
	Err      error
}

// NewEntityStore creates a new mock EntityStore seeded with the given
// records.
func NewEntityStore(seed ...*entities.Entity) *EntityStore {
	m := &EntityStore{Entities: make(map[string]*entities.Entity)}
	for _, e := range seed {
		m.Entities[e.ID] = e
	}
	return m
}

// List returns all entity records sorted by ID. The spoke scope is ignored.
func (m *EntityStore) List(_ context.Context, _ string) ([]*entities.Entity, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	all := make([]*entities.Entity, 0, len(m.Entities))
	for _, e := range m.Entities {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

// Get retrieves a single entity by ID, or (nil, nil) when missing.
func (m *EntityStore) Get(_ context.Context, entityID string) (*entities.Entity, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Entities[entityID], nil
}

// Save writes an entity record.
func (m *EntityStore) Save(_ context.Context, entity *entities.Entity) error {
	if m.Err != nil {
		return m.Err
	}
	m.Entities[entity.ID] = entity
	return nil
}

// Close is a no-op.
func (m *EntityStore) Close() error { return nil }

// Classifier is a mock implementation of ports.Classifier returning a fixed
// result.
type Classifier struct {
	Result entities.QueryType
	Err    error
	Calls  int
}

// Classify returns the configured result.
func (m *Classifier) Classify(_ context.Context, _ string) (entities.QueryType, error) {
	m.Calls++
	if m.Err != nil {
		return entities.QueryUnknown, m.Err
	}
	return m.Result, nil
}
