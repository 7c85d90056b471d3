package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/partusch-cms/internal/client/migrations"
	"github.com/dmitrijs2005/partusch-cms/internal/client/repositories/assets"
	"github.com/dmitrijs2005/partusch-cms/internal/client/repositories/drafts"
	"github.com/dmitrijs2005/partusch-cms/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

type Repositories struct {
	Drafts drafts.Repository
	Assets assets.Repository
}

func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Drafts: drafts.NewSQLiteRepository(db),
		Assets: assets.NewSQLiteRepository(db),
	}
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// InitDatabase opens the SQLite database at dsn, creating its directory when
// needed, and applies all migrations.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	if err := filex.EnsureParentDir(dsn); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}
	// a single connection keeps ":memory:" databases coherent
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
