package repository_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glimpse/internal/model"
	"glimpse/internal/repository"
)

func newFileRepo(t *testing.T) (repository.Repository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := repository.NewFileRepository(dir)
	require.NoError(t, err)
	return repo, dir
}

func sampleDoc(id string) *model.SessionDocument {
	return &model.SessionDocument{
		ID:        id,
		Title:     "sample",
		CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		History: []model.Message{
			{Role: model.RoleUser, Parts: []model.Part{model.TextPart("hi")}},
			{Role: model.RoleModel, Parts: []model.Part{
				model.TextPart("hello"),
				model.ImagePart("image/png", []byte{0x89, 0x50}),
			}},
		},
	}
}

func TestFileRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, _ := newFileRepo(t)

	doc := sampleDoc("session-1")
	require.NoError(t, repo.Create(ctx, doc))

	loaded, err := repo.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, loaded.ID)
	assert.Equal(t, doc.Title, loaded.Title)
	assert.True(t, doc.CreatedAt.Equal(loaded.CreatedAt))
	assert.Equal(t, doc.History, loaded.History)

	// Saving a loaded document without mutation changes nothing but
	// UpdatedAt.
	require.NoError(t, repo.Save(ctx, loaded))
	again, err := repo.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, loaded.ID, again.ID)
	assert.Equal(t, loaded.Title, again.Title)
	assert.Equal(t, loaded.History, again.History)
}

func TestFileRepository_LoadNotFound(t *testing.T) {
	ctx := context.Background()
	repo, _ := newFileRepo(t)

	_, err := repo.Load(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFileRepository_PathTraversalRejected(t *testing.T) {
	ctx := context.Background()
	repo, _ := newFileRepo(t)

	_, err := repo.Load(ctx, "../escape")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFileRepository_Rename(t *testing.T) {
	ctx := context.Background()
	repo, _ := newFileRepo(t)

	require.NoError(t, repo.Create(ctx, sampleDoc("session-1")))
	require.NoError(t, repo.Rename(ctx, "session-1", "renamed"))

	loaded, err := repo.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", loaded.Title)

	assert.ErrorIs(t, repo.Rename(ctx, "missing", "x"), repository.ErrNotFound)
}

func TestFileRepository_DeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	repo, _ := newFileRepo(t)

	require.NoError(t, repo.Create(ctx, sampleDoc("session-1")))
	require.NoError(t, repo.Delete(ctx, "session-1"))
	require.NoError(t, repo.Delete(ctx, "session-1"))

	_, err := repo.Load(ctx, "session-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFileRepository_List(t *testing.T) {
	ctx := context.Background()
	repo, dir := newFileRepo(t)

	// Saves happen in order, so b is more recent than a.
	require.NoError(t, repo.Create(ctx, sampleDoc("a")))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, repo.Create(ctx, sampleDoc("b")))

	// A corrupt document must be skipped, not fatal.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "corrupt.json"), []byte("{not json"), 0640))

	summaries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "b", summaries[0].ID)
	assert.Equal(t, "a", summaries[1].ID)

	// Turns counts model messages only.
	assert.Equal(t, 1, summaries[0].Turns)
}

func TestFileRepository_SaveIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo, dir := newFileRepo(t)

	require.NoError(t, repo.Create(ctx, sampleDoc("session-1")))

	// No temp file is left behind and the document on disk is valid JSON.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "session-1.json", entries[0].Name())

	data, err := os.ReadFile(filepath.Join(dir, "session-1.json"))
	require.NoError(t, err)
	var doc model.SessionDocument
	assert.NoError(t, json.Unmarshal(data, &doc))
}
