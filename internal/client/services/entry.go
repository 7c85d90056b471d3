package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/partusch-cms/internal/client/client"
	"github.com/dmitrijs2005/partusch-cms/internal/client/models"
	"github.com/dmitrijs2005/partusch-cms/internal/client/session"
	"github.com/dmitrijs2005/partusch-cms/internal/logging"
)

// isoMillis matches the millisecond-precision UTC timestamps the CMS stores.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type EntryService interface {
	// Create issues a single create request for draft.
	Create(ctx context.Context, draft models.EntryDraft) (models.PublishedEntry, error)

	// Publish publishes a created entry using the version it carries. An entry
	// without a version is fetched first.
	Publish(ctx context.Context, entry models.PublishedEntry) error

	// Submit creates and publishes draft, then resets it. The draft is kept
	// when either step fails.
	Submit(ctx context.Context, draft *models.EntryDraft) (models.PublishedEntry, error)

	List(ctx context.Context) ([]models.EntrySummary, error)

	// Delete unpublishes the entry when needed and deletes it.
	Delete(ctx context.Context, entryID string) error
}

type EntryConfig struct {
	Locale string
	// Now is used for publishDate when the draft has none.
	Now func() time.Time
}

type entryService struct {
	sess *session.Session
	cms  client.CMS
	cfg  EntryConfig
	log  logging.Logger
}

func NewEntryService(sess *session.Session, cms client.CMS, cfg EntryConfig, log logging.Logger) EntryService {
	if cfg.Locale == "" {
		cfg.Locale = "en-US"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if log == nil {
		log = logging.Nop()
	}
	return &entryService{sess: sess, cms: cms, cfg: cfg, log: log}
}

// entryFields builds the request fields. Tags and cover images are always
// present, possibly empty.
func (s *entryService) entryFields(d models.EntryDraft) client.EntryFields {
	loc := s.cfg.Locale

	covers := make([]client.Link, 0, len(d.Images))
	for _, img := range d.Images {
		covers = append(covers, client.NewLink(client.LinkTypeAsset, img.ID))
	}

	tags := make([]client.Link, 0, 2)
	for _, t := range d.Tags() {
		tags = append(tags, client.NewLink(client.LinkTypeEntry, t.ID))
	}

	date := d.PublishDate
	if date.IsZero() {
		date = s.cfg.Now()
	}

	return client.EntryFields{
		CoverImages:      client.Localized[[]client.Link]{loc: covers},
		PublishDate:      client.Localized[string]{loc: date.UTC().Format(isoMillis)},
		ShortDescription: client.Localized[string]{loc: d.Title},
		Body:             client.Localized[string]{loc: d.Body},
		Tags:             client.Localized[[]client.Link]{loc: tags},
	}
}

func (s *entryService) Create(ctx context.Context, draft models.EntryDraft) (models.PublishedEntry, error) {
	cred, err := s.sess.Credential()
	if err != nil {
		return models.PublishedEntry{}, err
	}

	e, err := s.cms.CreateEntry(ctx, cred, s.entryFields(draft))
	if err != nil {
		return models.PublishedEntry{}, &EntryCreationError{Err: err}
	}
	s.log.Info(ctx, "entry created", "entry_id", e.Sys.ID, "version", e.Sys.Version, "images", len(draft.Images))
	return models.PublishedEntry{ID: e.Sys.ID, Version: e.Sys.Version}, nil
}

func (s *entryService) Publish(ctx context.Context, entry models.PublishedEntry) error {
	cred, err := s.sess.Credential()
	if err != nil {
		return err
	}

	version := entry.Version
	if version == 0 {
		current, err := s.cms.GetEntry(ctx, cred, entry.ID)
		if err != nil {
			return &EntryPublishError{EntryID: entry.ID, Err: err}
		}
		version = current.Sys.Version
	}

	if _, err := s.cms.PublishEntry(ctx, cred, entry.ID, version); err != nil {
		return &EntryPublishError{EntryID: entry.ID, Err: err}
	}
	s.log.Info(ctx, "entry published", "entry_id", entry.ID, "version", version)
	return nil
}

func (s *entryService) Submit(ctx context.Context, draft *models.EntryDraft) (models.PublishedEntry, error) {
	entry, err := s.Create(ctx, *draft)
	if err != nil {
		return models.PublishedEntry{}, err
	}
	if err := s.Publish(ctx, entry); err != nil {
		return entry, err
	}
	draft.Reset()
	return entry, nil
}

func (s *entryService) List(ctx context.Context) ([]models.EntrySummary, error) {
	cred, err := s.sess.Credential()
	if err != nil {
		return nil, err
	}

	entries, err := s.cms.ListEntries(ctx, cred, client.ListQuery{Order: "-sys.createdAt"})
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	out := make([]models.EntrySummary, 0, len(entries))
	for _, e := range entries {
		sum := models.EntrySummary{
			ID:        e.Sys.ID,
			Title:     e.Fields.ShortDescription[s.cfg.Locale],
			Published: e.IsPublished(),
			Version:   e.Sys.Version,
		}
		if ts, err := time.Parse(time.RFC3339Nano, e.Sys.UpdatedAt); err == nil {
			sum.UpdatedAt = ts
		}
		out = append(out, sum)
	}
	return out, nil
}

func (s *entryService) Delete(ctx context.Context, entryID string) error {
	cred, err := s.sess.Credential()
	if err != nil {
		return err
	}

	e, err := s.cms.GetEntry(ctx, cred, entryID)
	if err != nil {
		return fmt.Errorf("delete entry %s: %w", entryID, err)
	}

	version := e.Sys.Version
	if e.IsPublished() {
		unpublished, err := s.cms.UnpublishEntry(ctx, cred, entryID, version)
		if err != nil {
			return fmt.Errorf("unpublish entry %s: %w", entryID, err)
		}
		version = unpublished.Sys.Version
	}

	if err := s.cms.DeleteEntry(ctx, cred, entryID, version); err != nil {
		return fmt.Errorf("delete entry %s: %w", entryID, err)
	}
	s.log.Info(ctx, "entry deleted", "entry_id", entryID)
	return nil
}
