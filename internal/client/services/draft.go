package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/partusch-cms/internal/client/models"
	"github.com/dmitrijs2005/partusch-cms/internal/client/repositories/drafts"
)

// DraftService keeps the current draft on local storage.
type DraftService interface {
	Load(ctx context.Context) (models.EntryDraft, error)
	Save(ctx context.Context, d models.EntryDraft) error
	Discard(ctx context.Context) error
}

type draftService struct {
	repo drafts.Repository
}

func NewDraftService(repo drafts.Repository) DraftService {
	return &draftService{repo: repo}
}

func (s *draftService) Load(ctx context.Context) (models.EntryDraft, error) {
	d, err := s.repo.Load(ctx)
	if err != nil {
		return models.EntryDraft{}, fmt.Errorf("load draft: %w", err)
	}
	return d, nil
}

// Save stores d; an empty draft clears the store instead.
func (s *draftService) Save(ctx context.Context, d models.EntryDraft) error {
	if d.IsEmpty() {
		return s.Discard(ctx)
	}
	if err := s.repo.Save(ctx, d); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *draftService) Discard(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("discard draft: %w", err)
	}
	return nil
}
