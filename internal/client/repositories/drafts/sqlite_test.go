package drafts

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/partusch-cms/internal/client/migrations"
	"github.com/dmitrijs2005/partusch-cms/internal/client/models"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.Up(db, "."))
	return db
}

func TestLoad_EmptyWhenNothingStored(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	d, err := r.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, d.IsEmpty())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	want := models.EntryDraft{
		Title:       "Beach day",
		Body:        "Sand everywhere.",
		IsMilo:      true,
		PublishDate: time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC),
		Images: []models.UploadedAsset{
			{ID: "a1", URL: "https://img/a1.jpg", FileName: "a1.jpg", ContentType: "image/jpeg"},
			{ID: "a2", URL: "https://img/a2.png", FileName: "a2.png", ContentType: "image/png"},
		},
	}
	require.NoError(t, r.Save(ctx, want))

	got, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Body, got.Body)
	assert.True(t, got.IsMilo)
	assert.False(t, got.IsOliver)
	assert.True(t, want.PublishDate.Equal(got.PublishDate))
	assert.Equal(t, want.Images, got.Images)
}

func TestSave_ReplacesImages(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	d := models.EntryDraft{Title: "x"}
	d.AppendImage(models.UploadedAsset{ID: "a1"})
	d.AppendImage(models.UploadedAsset{ID: "a2"})
	require.NoError(t, r.Save(ctx, d))

	d.RemoveImage("a1")
	d.AppendImage(models.UploadedAsset{ID: "a3"})
	require.NoError(t, r.Save(ctx, d))

	got, err := r.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Images, 2)
	assert.Equal(t, "a2", got.Images[0].ID)
	assert.Equal(t, "a3", got.Images[1].ID)
}

func TestClear(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	d := models.EntryDraft{Title: "x", IsOliver: true}
	d.AppendImage(models.UploadedAsset{ID: "a1"})
	require.NoError(t, r.Save(ctx, d))

	require.NoError(t, r.Clear(ctx))

	got, err := r.Load(ctx)
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())

	var n int
	require.NoError(t, db.QueryRow(`select count(*) from draft_images`).Scan(&n))
	assert.Zero(t, n)
}
