package drafts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/partusch-cms/internal/client/models"
	"github.com/dmitrijs2005/partusch-cms/internal/dbx"
)

const currentDraftID = 1

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Load(ctx context.Context) (models.EntryDraft, error) {
	var (
		d           models.EntryDraft
		isMilo      int
		isOliver    int
		publishDate string
	)

	query := `select title, body, is_milo, is_oliver, publish_date from drafts where id=?`
	err := r.db.QueryRowContext(ctx, query, currentDraftID).
		Scan(&d.Title, &d.Body, &isMilo, &isOliver, &publishDate)
	if errors.Is(err, sql.ErrNoRows) {
		return models.EntryDraft{}, nil
	}
	if err != nil {
		return models.EntryDraft{}, fmt.Errorf("failed to load draft: %w", err)
	}

	d.IsMilo = isMilo != 0
	d.IsOliver = isOliver != 0
	if publishDate != "" {
		if d.PublishDate, err = time.Parse(time.RFC3339Nano, publishDate); err != nil {
			return models.EntryDraft{}, fmt.Errorf("bad publish date %q: %w", publishDate, err)
		}
	}

	images, err := r.loadImages(ctx)
	if err != nil {
		return models.EntryDraft{}, err
	}
	d.Images = images
	return d, nil
}

func (r *SQLiteRepository) loadImages(ctx context.Context) ([]models.UploadedAsset, error) {
	query := `select asset_id, url, file_name, content_type from draft_images
		where draft_id=? order by position`
	rows, err := r.db.QueryContext(ctx, query, currentDraftID)
	if err != nil {
		return nil, fmt.Errorf("failed to select draft images: %w", err)
	}
	defer rows.Close()

	var images []models.UploadedAsset
	for rows.Next() {
		var a models.UploadedAsset
		if err := rows.Scan(&a.ID, &a.URL, &a.FileName, &a.ContentType); err != nil {
			return nil, err
		}
		images = append(images, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return images, nil
}

// Save rewrites the draft row and its images in one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, d models.EntryDraft) error {
	var publishDate string
	if !d.PublishDate.IsZero() {
		publishDate = d.PublishDate.UTC().Format(time.RFC3339Nano)
	}

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query := `insert into drafts (id, title, body, is_milo, is_oliver, publish_date, updated_at)
			values (?, ?, ?, ?, ?, ?, ?)
			on conflict(id) do update set title = excluded.title,
				body = excluded.body,
				is_milo = excluded.is_milo,
				is_oliver = excluded.is_oliver,
				publish_date = excluded.publish_date,
				updated_at = excluded.updated_at`
		_, err := tx.ExecContext(ctx, query, currentDraftID, d.Title, d.Body,
			boolToInt(d.IsMilo), boolToInt(d.IsOliver), publishDate,
			time.Now().UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("failed to upsert draft: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `delete from draft_images where draft_id=?`, currentDraftID); err != nil {
			return fmt.Errorf("failed to clear draft images: %w", err)
		}

		for pos, a := range d.Images {
			_, err := tx.ExecContext(ctx,
				`insert into draft_images (draft_id, position, asset_id, url, file_name, content_type)
				values (?, ?, ?, ?, ?, ?)`,
				currentDraftID, pos, a.ID, a.URL, a.FileName, a.ContentType)
			if err != nil {
				return fmt.Errorf("failed to insert draft image: %w", err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `delete from draft_images where draft_id=?`, currentDraftID); err != nil {
			return fmt.Errorf("failed to clear draft images: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `delete from drafts where id=?`, currentDraftID); err != nil {
			return fmt.Errorf("failed to clear draft: %w", err)
		}
		return nil
	})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
