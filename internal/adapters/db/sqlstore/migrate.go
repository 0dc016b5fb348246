package sqlstore

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations creates the local sqlite schema. The Postgres schema is owned by
// the hosted database and is not migrated from here.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	if name := db.Dialector.Name(); name != "sqlite" {
		return fmt.Errorf("migrations only run against sqlite, got %s", name)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return err
	}

	return nil
}
