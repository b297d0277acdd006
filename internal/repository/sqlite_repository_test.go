package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glimpse/internal/model"
	"glimpse/internal/repository"
)

func newSQLiteRepo(t *testing.T) (repository.Repository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repository.NewSQLiteRepository(db), mock, db
}

func TestSQLiteRepository_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mock, _ := newSQLiteRepo(t)

		now := time.Now().UTC()
		rows := sqlmock.NewRows([]string{"id", "title", "created_at", "updated_at", "history"}).
			AddRow("s1", "a title", now, now, `[{"role":"user","parts":[{"kind":"text","text":"hi"}]}]`)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, created_at, updated_at, history FROM sessions WHERE id = ?")).
			WithArgs("s1").
			WillReturnRows(rows)

		doc, err := repo.Load(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "s1", doc.ID)
		assert.Equal(t, "a title", doc.Title)
		require.Len(t, doc.History, 1)
		assert.Equal(t, model.RoleUser, doc.History[0].Role)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		repo, mock, _ := newSQLiteRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, created_at, updated_at, history FROM sessions WHERE id = ?")).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Load(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSQLiteRepository_Save(t *testing.T) {
	ctx := context.Background()
	repo, mock, _ := newSQLiteRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sessions")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	doc := &model.SessionDocument{
		ID:        "s1",
		Title:     "t",
		CreatedAt: time.Now().UTC(),
		History:   []model.Message{{Role: model.RoleUser, Parts: []model.Part{model.TextPart("hi")}}},
	}
	before := doc.UpdatedAt
	require.NoError(t, repo.Save(ctx, doc))
	assert.True(t, doc.UpdatedAt.After(before))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteRepository_Rename(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mock, _ := newSQLiteRepo(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE sessions SET title = ?, updated_at = ? WHERE id = ?")).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Rename(ctx, "s1", "new title"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		repo, mock, _ := newSQLiteRepo(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE sessions SET title = ?, updated_at = ? WHERE id = ?")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Rename(ctx, "missing", "x"), repository.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSQLiteRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo, mock, _ := newSQLiteRepo(t)

	// Zero affected rows is still success: delete is idempotent.
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE id = ?")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(ctx, "missing"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteRepository_List(t *testing.T) {
	ctx := context.Background()
	repo, mock, _ := newSQLiteRepo(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "title", "created_at", "updated_at", "history"}).
		AddRow("b", "newer", now, now, `[{"role":"user","parts":[]},{"role":"model","parts":[]}]`).
		AddRow("a", "older", now, now.Add(-time.Hour), `[]`).
		AddRow("c", "corrupt", now, now.Add(-2*time.Hour), `{broken`)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, created_at, updated_at, history FROM sessions ORDER BY updated_at DESC")).
		WillReturnRows(rows)

	summaries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "b", summaries[0].ID)
	assert.Equal(t, 1, summaries[0].Turns)
	assert.Equal(t, "a", summaries[1].ID)
	assert.Equal(t, 0, summaries[1].Turns)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteRepository_SaveError(t *testing.T) {
	ctx := context.Background()
	repo, mock, _ := newSQLiteRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sessions")).
		WillReturnError(errors.New("database is locked"))

	err := repo.Save(ctx, &model.SessionDocument{ID: "s1"})
	assert.ErrorContains(t, err, "could not save session")
	require.NoError(t, mock.ExpectationsWereMet())
}
