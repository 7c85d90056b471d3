package assets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/partusch-cms/internal/client/models"
	"github.com/dmitrijs2005/partusch-cms/internal/common"
	"github.com/dmitrijs2005/partusch-cms/internal/dbx"
	"github.com/google/uuid"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) Create(ctx context.Context, rec *models.AssetRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.UpdatedAt = r.now().UTC()

	query := `insert into assets (id, file_name, content_type, upload_id, asset_id, step, status, error, updated_at)
		values (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, rec.ID, rec.FileName, rec.ContentType, rec.UploadID,
		rec.AssetID, string(rec.Step), string(rec.Status), rec.Error, rec.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert asset record: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, rec *models.AssetRecord) error {
	rec.UpdatedAt = r.now().UTC()

	query := `update assets set upload_id=?, asset_id=?, step=?, status=?, error=?, updated_at=? where id=?`
	res, err := r.db.ExecContext(ctx, query, rec.UploadID, rec.AssetID, string(rec.Step),
		string(rec.Status), rec.Error, rec.UpdatedAt.Format(time.RFC3339Nano), rec.ID)
	if err != nil {
		return fmt.Errorf("failed to update asset record: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.AssetRecord, error) {
	query := `select id, file_name, content_type, upload_id, asset_id, step, status, error, updated_at
		from assets where id=?`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) ListUnpublished(ctx context.Context) ([]models.AssetRecord, error) {
	query := `select id, file_name, content_type, upload_id, asset_id, step, status, error, updated_at
		from assets where status<>? order by updated_at`
	rows, err := r.db.QueryContext(ctx, query, string(models.AssetStatusPublished))
	if err != nil {
		return nil, fmt.Errorf("failed to select asset records: %w", err)
	}
	defer rows.Close()

	var result []models.AssetRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `delete from assets where id=?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete asset record: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return common.ErrorNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*models.AssetRecord, error) {
	var (
		rec       models.AssetRecord
		step      string
		status    string
		updatedAt string
	)
	if err := s.Scan(&rec.ID, &rec.FileName, &rec.ContentType, &rec.UploadID, &rec.AssetID,
		&step, &status, &rec.Error, &updatedAt); err != nil {
		return nil, err
	}
	rec.Step = models.PipelineStep(step)
	rec.Status = models.AssetStatus(status)

	ts, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("bad updated_at %q: %w", updatedAt, err)
	}
	rec.UpdatedAt = ts
	return &rec, nil
}
