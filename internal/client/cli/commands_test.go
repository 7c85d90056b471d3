package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/partusch-cms/internal/client/models"
	"github.com/dmitrijs2005/partusch-cms/internal/client/services"
)

func TestDraftEditing(t *testing.T) {
	ctx := context.Background()
	app := newTestApp("Prompted title", "line one", "line two", "", "")

	require.NoError(t, app.SetTitle(ctx, nil))
	assert.Equal(t, "Prompted title", app.draft.Title)

	require.NoError(t, app.SetBody(ctx))
	assert.Equal(t, "line one\nline two", app.draft.Body)

	require.NoError(t, app.SetTitle(ctx, []string{"Inline", "title"}))
	assert.Equal(t, "Inline title", app.draft.Title)

	require.NoError(t, app.Tag(ctx, []string{"Milo"}))
	require.NoError(t, app.Tag(ctx, []string{"oliver", "on"}))
	require.NoError(t, app.Tag(ctx, []string{"milo", "off"}))
	assert.Equal(t, []models.Tag{models.TagOliver}, app.draft.Tags())

	assert.ErrorIs(t, app.Tag(ctx, []string{"rex"}), models.ErrUnknownTag)
	assert.ErrorIs(t, app.Tag(ctx, nil), errUsage)

	require.NoError(t, app.SetDate(ctx, []string{"2024-05-01"}))
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local), app.draft.PublishDate)

	require.NoError(t, app.SetDate(ctx, []string{"2024-05-01T10:30:00Z"}))
	assert.True(t, app.draft.PublishDate.Equal(time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)))

	assert.Error(t, app.SetDate(ctx, []string{"tomorrow"}))

	require.NoError(t, app.SetDate(ctx, []string{"clear"}))
	assert.True(t, app.draft.PublishDate.IsZero())

	require.NotEmpty(t, app.drafts.saved)
	last := app.drafts.saved[len(app.drafts.saved)-1]
	assert.Equal(t, "Inline title", last.Title)
	assert.True(t, last.IsOliver)

	require.NoError(t, app.Show(ctx))
	assert.Contains(t, app.out.String(), "Title:  Inline title")
	assert.Contains(t, app.out.String(), "Tags:   oliver")

	require.NoError(t, app.Reset(ctx))
	assert.True(t, app.draft.IsEmpty())
	assert.Equal(t, 1, app.drafts.discards)
}

func TestSaveDraftError(t *testing.T) {
	app := newTestApp()
	app.drafts.saveError = errors.New("disk full")

	err := app.SetTitle(context.Background(), []string{"x"})
	assert.ErrorContains(t, err, "save draft")
}

func TestImages(t *testing.T) {
	ctx := context.Background()
	app := newTestApp("", "prompted.png")

	require.NoError(t, app.AddImage(ctx, nil), "empty path is a cancelled pick")
	assert.Empty(t, app.assets.refs)

	require.NoError(t, app.AddImage(ctx, nil))
	require.NoError(t, app.AddImage(ctx, []string{"b.jpg", "image/jpeg"}))

	require.Len(t, app.assets.refs, 2)
	assert.Equal(t, models.ImageRef{URI: "prompted.png"}, app.assets.refs[0])
	assert.Equal(t, models.ImageRef{URI: "b.jpg", MIMEType: "image/jpeg"}, app.assets.refs[1])
	require.Len(t, app.draft.Images, 2)
	assert.Equal(t, "asset-prompted.png", app.draft.Images[0].ID)

	require.NoError(t, app.Images(ctx))
	assert.Contains(t, app.out.String(), "2. asset-b.jpg")

	require.NoError(t, app.RemoveImage(ctx, []string{"asset-prompted.png"}))
	require.Len(t, app.draft.Images, 1)
	assert.Error(t, app.RemoveImage(ctx, []string{"nope"}))
	assert.ErrorIs(t, app.RemoveImage(ctx, nil), errUsage)
}

func TestAddImageFailureKeepsDraft(t *testing.T) {
	app := newTestApp()
	app.assets.err = &services.AssetPipelineError{Step: models.StepProcess, Err: errors.New("500")}

	err := app.AddImage(context.Background(), []string{"a.png"})

	var pe *services.AssetPipelineError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, models.StepProcess, pe.Step)
	assert.Empty(t, app.draft.Images)
	assert.Empty(t, app.drafts.saved)
}

func TestOrphans(t *testing.T) {
	ctx := context.Background()
	app := newTestApp()

	require.NoError(t, app.Orphans(ctx, nil))
	assert.Contains(t, app.out.String(), "No orphaned uploads")

	app.assets.orphans = []models.AssetRecord{{ID: "r1", FileName: "a.png", Step: models.StepProcess, Status: models.AssetStatusFailed}}
	require.NoError(t, app.Orphans(ctx, nil))
	assert.Contains(t, app.out.String(), "r1  a.png  step=process status=failed")

	require.NoError(t, app.Orphans(ctx, []string{"forget", "r1"}))
	assert.Equal(t, "r1", app.assets.forgot)
	assert.ErrorIs(t, app.Orphans(ctx, []string{"forget"}), errUsage)
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("requires title", func(t *testing.T) {
		app := newTestApp()
		assert.Error(t, app.Submit(ctx))
		assert.Empty(t, app.entries.submitted)
	})

	t.Run("success clears draft", func(t *testing.T) {
		app := newTestApp()
		app.draft = models.EntryDraft{Title: "t", IsMilo: true}

		require.NoError(t, app.Submit(ctx))
		require.Len(t, app.entries.submitted, 1)
		assert.Equal(t, "t", app.entries.submitted[0].Title)
		assert.True(t, app.draft.IsEmpty())
		assert.Equal(t, 1, app.drafts.discards)
		assert.Contains(t, app.out.String(), "Published entry entry-1")
	})

	t.Run("publish failure keeps draft", func(t *testing.T) {
		app := newTestApp()
		app.draft = models.EntryDraft{Title: "t"}
		app.entries.submitErr = &services.EntryPublishError{EntryID: "e9", Err: errors.New("409")}

		assert.Error(t, app.Submit(ctx))
		assert.Equal(t, "t", app.draft.Title)
		assert.Zero(t, app.drafts.discards)
		assert.Contains(t, app.out.String(), "Entry e9 was created but not published")
	})
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	app := newTestApp("")
	app.entries.list = []models.EntrySummary{
		{ID: "a", Title: "First", Published: true},
		{ID: "b", Title: "Second"},
	}

	require.NoError(t, app.List(ctx))
	assert.Contains(t, app.out.String(), "a  published")
	assert.Contains(t, app.out.String(), "b  draft")

	listed := app.App.entries
	require.NoError(t, app.Delete(ctx, []string{"a"}))
	assert.Equal(t, []string{"a"}, app.entries.deleted)
	require.Len(t, app.App.entries, 1)
	assert.Equal(t, "b", app.App.entries[0].ID)
	assert.Len(t, listed, 2, "previous list is not modified")

	require.NoError(t, app.Delete(ctx, nil), "empty prompt does nothing")
	assert.Len(t, app.entries.deleted, 1)
}
