package sqlcatalog

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/icyphotoget/perfume/internal/infrastructure/repository/sqlcatalog/migrations"
)

// goose keeps its dialect and filesystem in package state.
var migrateMu sync.Mutex

// Migrate applies every pending embedded migration.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetLogger(goose.NopLogger())
	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect.gooseName()); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("run catalog migrations: %w", err)
	}
	return nil
}

func MigrationVersion(ctx context.Context, db *sql.DB, dialect Dialect) (int64, error) {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	if err := goose.SetDialect(dialect.gooseName()); err != nil {
		return 0, fmt.Errorf("set migration dialect: %w", err)
	}
	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("read migration version: %w", err)
	}
	return version, nil
}
