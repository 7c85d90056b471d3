package drafts

import (
	"context"

	"github.com/dmitrijs2005/partusch-cms/internal/client/models"
)

type Repository interface {
	// Load returns the stored draft, or an empty draft when none is stored.
	Load(ctx context.Context) (models.EntryDraft, error)

	// Save replaces the stored draft, images included.
	Save(ctx context.Context, d models.EntryDraft) error

	// Clear removes the stored draft.
	Clear(ctx context.Context) error
}
