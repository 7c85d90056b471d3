// Package assets keeps a local journal of asset uploads. Every pipeline step
// updates the journal, so uploads that never got published can be listed.
package assets

import (
	"context"

	"github.com/dmitrijs2005/partusch-cms/internal/client/models"
)

type Repository interface {
	// Create inserts rec, assigning an id when rec.ID is empty.
	Create(ctx context.Context, rec *models.AssetRecord) error

	// Update overwrites the mutable columns of an existing record.
	Update(ctx context.Context, rec *models.AssetRecord) error

	GetByID(ctx context.Context, id string) (*models.AssetRecord, error)

	// ListUnpublished returns records that never reached the published state,
	// oldest first.
	ListUnpublished(ctx context.Context) ([]models.AssetRecord, error)

	DeleteByID(ctx context.Context, id string) error
}
