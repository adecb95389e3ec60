// Package sqlite provides a SQLite implementation of the EntityStore
// interface, keeping each record's JSON body alongside indexed identity
// columns.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/kin-core/internal/domain/entities"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.EntityStore using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository at the given path and
// ensures the schema exists.
func NewRepository(path string) (*Repository, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	repo := &Repository{db: db, path: path}
	if err := repo.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *Repository) ensureSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS entity_records (
		entity_id   TEXT PRIMARY KEY,
		entity_type TEXT NOT NULL DEFAULT '',
		spoke       TEXT NOT NULL DEFAULT '',
		body        TEXT NOT NULL,
		updated_at  TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_entity_records_type ON entity_records(entity_type);
	CREATE INDEX IF NOT EXISTS idx_entity_records_spoke ON entity_records(spoke);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// List returns all entity records, ordered by ID. An empty spoke means the
// whole graph.
func (r *Repository) List(ctx context.Context, spoke string) ([]*entities.Entity, error) {
	query := `SELECT body FROM entity_records ORDER BY entity_id`
	args := []any{}
	if spoke != "" {
		query = `SELECT body FROM entity_records WHERE spoke = ? ORDER BY entity_id`
		args = append(args, spoke)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying entities: %w", err)
	}
	defer rows.Close()

	var all []*entities.Entity
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scanning entity row: %w", err)
		}
		var e entities.Entity
		if err := json.Unmarshal([]byte(body), &e); err != nil {
			return nil, fmt.Errorf("parsing entity body: %w", err)
		}
		all = append(all, &e)
	}
	return all, rows.Err()
}

// Get retrieves a single entity by ID. A missing record returns (nil, nil).
func (r *Repository) Get(ctx context.Context, entityID string) (*entities.Entity, error) {
	var body string
	err := r.db.QueryRowContext(ctx,
		`SELECT body FROM entity_records WHERE entity_id = ?`, entityID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying entity %s: %w", entityID, err)
	}

	var e entities.Entity
	if err := json.Unmarshal([]byte(body), &e); err != nil {
		return nil, fmt.Errorf("parsing entity body: %w", err)
	}
	return &e, nil
}

// Save writes an entity record, creating or overwriting it.
func (r *Repository) Save(ctx context.Context, entity *entities.Entity) error {
	if entity.ID == "" {
		return errors.New("entity_id is required")
	}

	body, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("marshaling entity %s: %w", entity.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO entity_records (entity_id, entity_type, spoke, body, updated_at)
		VALUES (?, ?, '', ?, ?)
		ON CONFLICT(entity_id) DO UPDATE SET
			entity_type = excluded.entity_type,
			body = excluded.body,
			updated_at = excluded.updated_at`,
		entity.ID, string(entity.Type), string(body), timeNow().UTC())
	if err != nil {
		return fmt.Errorf("saving entity %s: %w", entity.ID, err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}
