package services

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/partusch-cms/internal/client/client"
	"github.com/dmitrijs2005/partusch-cms/internal/client/media"
	"github.com/dmitrijs2005/partusch-cms/internal/client/models"
	"github.com/dmitrijs2005/partusch-cms/internal/client/repositories/assets"
	"github.com/dmitrijs2005/partusch-cms/internal/client/session"
	"github.com/dmitrijs2005/partusch-cms/internal/logging"
)

const (
	defaultPollInterval      = 500 * time.Millisecond
	defaultProcessingTimeout = 30 * time.Second
)

var errNotProcessed = errors.New("asset not processed yet")

// AssetService turns local images into published CMS assets.
type AssetService interface {
	// AddImage runs resolve, upload, link, process and publish in order and
	// appends the result to draft. On failure draft is left unchanged and the
	// error is an *AssetPipelineError.
	AddImage(ctx context.Context, draft *models.EntryDraft, ref models.ImageRef) (models.UploadedAsset, error)

	// Orphans lists journaled uploads that never got published.
	Orphans(ctx context.Context) ([]models.AssetRecord, error)

	// ForgetOrphan drops a journal record.
	ForgetOrphan(ctx context.Context, id string) error
}

type AssetConfig struct {
	Locale            string
	PollInterval      time.Duration
	ProcessingTimeout time.Duration
}

type assetService struct {
	sess    *session.Session
	cms     client.CMS
	src     media.Source
	journal assets.Repository
	cfg     AssetConfig
	log     logging.Logger
}

func NewAssetService(sess *session.Session, cms client.CMS, src media.Source, journal assets.Repository,
	cfg AssetConfig, log logging.Logger) AssetService {
	if cfg.Locale == "" {
		cfg.Locale = "en-US"
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.ProcessingTimeout <= 0 {
		cfg.ProcessingTimeout = defaultProcessingTimeout
	}
	if log == nil {
		log = logging.Nop()
	}
	return &assetService{sess: sess, cms: cms, src: src, journal: journal, cfg: cfg, log: log}
}

func (s *assetService) AddImage(ctx context.Context, draft *models.EntryDraft, ref models.ImageRef) (models.UploadedAsset, error) {
	cred, err := s.sess.Credential()
	if err != nil {
		return models.UploadedAsset{}, err
	}

	rec := &models.AssetRecord{
		FileName:    media.FileName(ref.URI),
		ContentType: ref.MIMEType,
		Step:        models.StepResolve,
		Status:      models.AssetStatusPending,
	}
	s.record(ctx, rec, true)

	fail := func(step models.PipelineStep, err error) (models.UploadedAsset, error) {
		rec.Step = step
		rec.Status = models.AssetStatusFailed
		rec.Error = err.Error()
		s.record(ctx, rec, false)
		s.log.Warn(ctx, "asset pipeline failed", "step", step, "file", rec.FileName, "asset_id", rec.AssetID, "error", err)
		return models.UploadedAsset{}, &AssetPipelineError{Step: step, Err: err}
	}

	blob, err := s.src.Open(ctx, ref)
	if err != nil {
		return fail(models.StepResolve, err)
	}
	defer blob.Close()
	rec.FileName = blob.FileName
	rec.ContentType = blob.ContentType

	rec.Step = models.StepUpload
	uploadID, err := s.cms.Upload(ctx, cred, blob)
	if err != nil {
		return fail(models.StepUpload, err)
	}
	rec.UploadID = uploadID
	s.record(ctx, rec, false)

	rec.Step = models.StepLink
	asset, err := s.cms.CreateAsset(ctx, cred, s.assetFields(blob.FileName, blob.ContentType, uploadID))
	if err != nil {
		return fail(models.StepLink, err)
	}
	rec.AssetID = asset.Sys.ID
	s.record(ctx, rec, false)

	rec.Step = models.StepProcess
	if err := s.cms.ProcessAsset(ctx, cred, asset.Sys.ID); err != nil {
		return fail(models.StepProcess, err)
	}
	processed, err := s.waitProcessed(ctx, cred, asset.Sys.ID)
	if err != nil {
		return fail(models.StepProcess, err)
	}
	s.record(ctx, rec, false)

	rec.Step = models.StepPublish
	published, err := s.cms.PublishAsset(ctx, cred, asset.Sys.ID, processed.Sys.Version)
	if err != nil {
		return fail(models.StepPublish, err)
	}

	url := published.FileURL(s.cfg.Locale)
	if url == "" {
		url = processed.FileURL(s.cfg.Locale)
	}
	up := models.UploadedAsset{
		ID:          asset.Sys.ID,
		URL:         url,
		FileName:    blob.FileName,
		ContentType: blob.ContentType,
	}
	draft.AppendImage(up)

	rec.Status = models.AssetStatusPublished
	rec.Error = ""
	s.record(ctx, rec, false)

	s.log.Info(ctx, "asset published", "asset_id", up.ID, "file", up.FileName)
	return up, nil
}

func (s *assetService) assetFields(fileName, contentType, uploadID string) client.AssetFields {
	link := client.NewLink(client.LinkTypeUpload, uploadID)
	return client.AssetFields{
		Title: client.Localized[string]{s.cfg.Locale: fileName},
		File: client.Localized[client.AssetFile]{s.cfg.Locale: {
			ContentType: contentType,
			FileName:    fileName,
			UploadFrom:  &link,
		}},
	}
}

// waitProcessed polls the asset until its file has a URL or the processing
// timeout elapses.
func (s *assetService) waitProcessed(ctx context.Context, cred models.Credential, assetID string) (client.Asset, error) {
	var processed client.Asset
	start := time.Now()

	b := retry.WithMaxDuration(s.cfg.ProcessingTimeout, retry.NewConstant(s.cfg.PollInterval))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		a, err := s.cms.GetAsset(ctx, cred, assetID)
		if err != nil {
			return err
		}
		if a.FileURL(s.cfg.Locale) == "" {
			return retry.RetryableError(errNotProcessed)
		}
		processed = a
		return nil
	})
	if errors.Is(err, errNotProcessed) {
		return client.Asset{}, &ProcessingTimeoutError{AssetID: assetID, Waited: time.Since(start)}
	}
	if err != nil {
		return client.Asset{}, err
	}
	return processed, nil
}

// record writes rec to the journal. Journal failures are logged and never
// abort the pipeline.
func (s *assetService) record(ctx context.Context, rec *models.AssetRecord, create bool) {
	if s.journal == nil {
		return
	}
	var err error
	if create {
		err = s.journal.Create(ctx, rec)
	} else {
		err = s.journal.Update(ctx, rec)
	}
	if err != nil {
		s.log.Warn(ctx, "asset journal write failed", "id", rec.ID, "error", err)
	}
}

func (s *assetService) Orphans(ctx context.Context) ([]models.AssetRecord, error) {
	if s.journal == nil {
		return nil, nil
	}
	return s.journal.ListUnpublished(ctx)
}

func (s *assetService) ForgetOrphan(ctx context.Context, id string) error {
	if s.journal == nil {
		return nil
	}
	return s.journal.DeleteByID(ctx, id)
}
