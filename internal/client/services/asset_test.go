package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/partusch-cms/internal/client/client"
	"github.com/dmitrijs2005/partusch-cms/internal/client/models"
	"github.com/dmitrijs2005/partusch-cms/internal/client/repositories/assets"
	"github.com/dmitrijs2005/partusch-cms/internal/client/session"
	"github.com/dmitrijs2005/partusch-cms/internal/common"
)

func newJournal(t *testing.T) assets.Repository {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return assets.NewSQLiteRepository(db)
}

func newAssetSvc(t *testing.T, sess *session.Session, f *fakeCMS, journal assets.Repository) AssetService {
	t.Helper()
	return NewAssetService(sess, newTestCMS(t, f), memSource{data: []byte("jpeg-bytes")}, journal, AssetConfig{
		PollInterval:      5 * time.Millisecond,
		ProcessingTimeout: 2 * time.Second,
	}, nil)
}

func TestAddImage_HappyPath(t *testing.T) {
	f := newFakeCMS()
	f.pollsBeforeReady = 1
	journal := newJournal(t)
	svc := newAssetSvc(t, loggedIn(), f, journal)

	var draft models.EntryDraft
	got, err := svc.AddImage(context.Background(), &draft, models.ImageRef{URI: "/photos/dog.jpg", MIMEType: "image/jpeg"})
	require.NoError(t, err)

	assert.Equal(t, []string{"upload", "link", "process", "poll", "poll", "publish-asset"}, f.steps())
	assert.Equal(t, "as-2", got.ID)
	assert.Equal(t, "https://images.example.net/sp/as-2.jpg", got.URL)
	assert.Equal(t, "dog.jpg", got.FileName)
	require.Len(t, draft.Images, 1)
	assert.Equal(t, got, draft.Images[0])

	pub := f.callsOf("publish-asset")
	require.Len(t, pub, 1)
	assert.Equal(t, "2", pub[0].Version, "publish must use the version seen by the last poll")
	assert.Equal(t, "Bearer cma-token", pub[0].Auth)

	link := f.callsOf("link")
	require.Len(t, link, 1)
	assert.JSONEq(t, `{"fields":{
		"title":{"en-US":"dog.jpg"},
		"file":{"en-US":{"contentType":"image/jpeg","fileName":"dog.jpg",
			"uploadFrom":{"sys":{"id":"up-1","type":"Link","linkType":"Upload"}}}}}}`, string(link[0].Body))

	upload := f.callsOf("upload")
	assert.Equal(t, "/spaces/sp/uploads", upload[0].Path)
	assert.Equal(t, "jpeg-bytes", string(upload[0].Body))

	orphans, err := svc.Orphans(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orphans)
}

func TestAddImage_PreservesUploadOrder(t *testing.T) {
	f := newFakeCMS()
	svc := newAssetSvc(t, loggedIn(), f, nil)

	var draft models.EntryDraft
	first, err := svc.AddImage(context.Background(), &draft, models.ImageRef{URI: "/p/one.jpg"})
	require.NoError(t, err)
	second, err := svc.AddImage(context.Background(), &draft, models.ImageRef{URI: "/p/two.jpg"})
	require.NoError(t, err)

	require.Len(t, draft.Images, 2)
	assert.Equal(t, first.ID, draft.Images[0].ID)
	assert.Equal(t, second.ID, draft.Images[1].ID)
	assert.Equal(t, "one.jpg", draft.Images[0].FileName)
	assert.Equal(t, "two.jpg", draft.Images[1].FileName)
}

func TestAddImage_ProcessFailureSkipsPublish(t *testing.T) {
	f := newFakeCMS()
	f.fail["process"] = http.StatusInternalServerError
	journal := newJournal(t)
	svc := newAssetSvc(t, loggedIn(), f, journal)

	var draft models.EntryDraft
	_, err := svc.AddImage(context.Background(), &draft, models.ImageRef{URI: "/p/dog.jpg"})

	var pe *AssetPipelineError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, models.StepProcess, pe.Step)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)

	assert.Empty(t, f.callsOf("publish-asset"))
	assert.Empty(t, f.callsOf("poll"))
	assert.Empty(t, draft.Images)

	orphans, err := svc.Orphans(context.Background())
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, models.StepProcess, orphans[0].Step)
	assert.Equal(t, models.AssetStatusFailed, orphans[0].Status)
	assert.Equal(t, "as-2", orphans[0].AssetID)
	assert.Equal(t, "up-1", orphans[0].UploadID)

	require.NoError(t, svc.ForgetOrphan(context.Background(), orphans[0].ID))
	orphans, err = svc.Orphans(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orphans)
}

func TestAddImage_ProcessingTimeout(t *testing.T) {
	f := newFakeCMS()
	f.neverReady = true
	svc := NewAssetService(loggedIn(), newTestCMS(t, f), memSource{data: []byte("x")}, nil, AssetConfig{
		PollInterval:      5 * time.Millisecond,
		ProcessingTimeout: 40 * time.Millisecond,
	}, nil)

	var draft models.EntryDraft
	_, err := svc.AddImage(context.Background(), &draft, models.ImageRef{URI: "/p/dog.jpg"})

	var pe *AssetPipelineError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, models.StepProcess, pe.Step)

	var te *ProcessingTimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "as-2", te.AssetID)

	assert.NotEmpty(t, f.callsOf("poll"))
	assert.Empty(t, f.callsOf("publish-asset"))
	assert.Empty(t, draft.Images)
}

func TestAddImage_StepFailures(t *testing.T) {
	tests := []struct {
		failStep string
		code     int
		wantStep models.PipelineStep
		wantIs   error
	}{
		{failStep: "upload", code: http.StatusBadRequest, wantStep: models.StepUpload},
		{failStep: "link", code: http.StatusUnprocessableEntity, wantStep: models.StepLink},
		{failStep: "poll", code: http.StatusNotFound, wantStep: models.StepProcess, wantIs: common.ErrorNotFound},
		{failStep: "publish-asset", code: http.StatusConflict, wantStep: models.StepPublish, wantIs: common.ErrVersionConflict},
	}

	for _, tt := range tests {
		t.Run(tt.failStep, func(t *testing.T) {
			f := newFakeCMS()
			f.fail[tt.failStep] = tt.code
			svc := newAssetSvc(t, loggedIn(), f, nil)

			var draft models.EntryDraft
			_, err := svc.AddImage(context.Background(), &draft, models.ImageRef{URI: "/p/dog.jpg"})

			var pe *AssetPipelineError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.wantStep, pe.Step)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
			assert.Empty(t, draft.Images)

			steps := f.steps()
			assert.Equal(t, tt.failStep, steps[len(steps)-1], "no request after the failing step")
		})
	}
}

func TestAddImage_ResolveFailure(t *testing.T) {
	f := newFakeCMS()
	svc := NewAssetService(loggedIn(), newTestCMS(t, f), memSource{err: errors.New("no such file")}, nil, AssetConfig{}, nil)

	var draft models.EntryDraft
	_, err := svc.AddImage(context.Background(), &draft, models.ImageRef{URI: "/p/missing.jpg"})

	var pe *AssetPipelineError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, models.StepResolve, pe.Step)
	assert.Empty(t, f.steps())
}

func TestAddImage_NotAuthenticated(t *testing.T) {
	f := newFakeCMS()
	svc := newAssetSvc(t, session.New(), f, nil)

	var draft models.EntryDraft
	_, err := svc.AddImage(context.Background(), &draft, models.ImageRef{URI: "/p/dog.jpg"})

	require.ErrorIs(t, err, common.ErrNotAuthenticated)
	assert.Empty(t, f.steps())
}

func TestAddImage_ContextCancelledWhilePolling(t *testing.T) {
	f := newFakeCMS()
	f.neverReady = true
	svc := NewAssetService(loggedIn(), newTestCMS(t, f), memSource{data: []byte("x")}, nil, AssetConfig{
		PollInterval:      10 * time.Millisecond,
		ProcessingTimeout: time.Minute,
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	var draft models.EntryDraft
	_, err := svc.AddImage(ctx, &draft, models.ImageRef{URI: "/p/dog.jpg"})

	var pe *AssetPipelineError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, models.StepProcess, pe.Step)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, f.callsOf("publish-asset"))
}
