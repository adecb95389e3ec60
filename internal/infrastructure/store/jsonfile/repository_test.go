package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/kin-core/internal/domain/entities"
)

func newRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(t.TempDir())
	require.NoError(t, err)
	return repo
}

func sample(id, name string) *entities.Entity {
	return &entities.Entity{
		ID:   id,
		Type: entities.TypePerson,
		Name: entities.Name{Full: name},
		Attributes: []entities.Attribute{
			{ID: "ATTR-001", Key: "location", Value: "Seattle", Confidence: 0.8},
		},
	}
}

func TestSaveAndGet(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sample("steve-1", "Steve Hughes")))

	got, err := repo.Get(ctx, "steve-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Steve Hughes", got.Name.Full)
	assert.Equal(t, "Seattle", got.Attributes[0].Value)
}

func TestGetMissingReturnsNilNil(t *testing.T) {
	repo := newRepo(t)

	got, err := repo.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveRequiresID(t *testing.T) {
	repo := newRepo(t)
	assert.Error(t, repo.Save(context.Background(), &entities.Entity{}))
}

func TestSaveOverwrites(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sample("steve-1", "Steve Hughes")))

	updated := sample("steve-1", "Steven Hughes")
	require.NoError(t, repo.Save(ctx, updated))

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Steven Hughes", all[0].Name.Full)
}

func TestListSortedByID(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sample("b-entity", "Ben Ito")))
	require.NoError(t, repo.Save(ctx, sample("a-entity", "Ana Torres")))

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a-entity", all[0].ID)
	assert.Equal(t, "b-entity", all[1].ID)
}

func TestListEmptyGraph(t *testing.T) {
	repo := newRepo(t)

	all, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSpokesAreSubdirectories(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewRepository(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sample("root-1", "Ana Torres")))

	// Place a record inside a spoke subdirectory by hand.
	spokeDir := filepath.Join(dir, "work")
	require.NoError(t, os.MkdirAll(spokeDir, 0o755))
	workPath := filepath.Join(spokeDir, "work-1.json")
	body, err := json.MarshalIndent(sample("work-1", "Ben Ito"), "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(workPath, body, 0o644))

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2, "List without a spoke covers the whole tree")

	scoped, err := repo.List(ctx, "work")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "work-1", scoped[0].ID)

	missing, err := repo.List(ctx, "no-such-spoke")
	require.NoError(t, err)
	assert.Empty(t, missing)

	// Get and Save find records regardless of which spoke holds them.
	got, err := repo.Get(ctx, "work-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	got.Name.Full = "Renamed"
	require.NoError(t, repo.Save(ctx, got))
	_, err = os.Stat(workPath)
	assert.NoError(t, err, "saving keeps the record in its spoke")
}

func TestSavedFileIsPrettyJSON(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewRepository(dir)
	require.NoError(t, err)

	require.NoError(t, repo.Save(context.Background(), sample("steve-1", "Steve Hughes")))

	data, err := os.ReadFile(filepath.Join(dir, "steve-1.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"entity_id\": \"steve-1\"")
}
