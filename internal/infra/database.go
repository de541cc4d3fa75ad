package infra

import (
	"fmt"
	"strings"

	"invoicegen/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite://"

// NewDatabase opens the accounts database. DSNs starting with sqlite:// open a
// local file (development); anything else is handed to the postgres driver.
// AutoMigrate creates the accounts table, then idempotent postgres-only
// patches that GORM cannot express are applied.
func NewDatabase(dsn string) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}

	postgresDB := !strings.HasPrefix(dsn, sqlitePrefix)
	var db *gorm.DB
	var err error
	if postgresDB {
		db, err = gorm.Open(postgres.Open(dsn), gcfg)
	} else {
		db, err = gorm.Open(sqlite.Open(strings.TrimPrefix(dsn, sqlitePrefix)), gcfg)
	}
	if err != nil {
		return nil, fmt.Errorf("infra: open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if postgresDB {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	} else {
		// sqlite serializes writers anyway
		sqlDB.SetMaxOpenConns(1)
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates the schema. Also used by integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Account{}); err != nil {
		return fmt.Errorf("infra: AutoMigrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements GORM AutoMigrate cannot
// express. Each statement is guarded so re-running is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// emails are stored lower-cased; enforce it for rows written outside the app
		{"accounts lower(email) check", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_accounts_email_lower') THEN
    ALTER TABLE accounts ADD CONSTRAINT chk_accounts_email_lower CHECK (email = lower(email));
  END IF;
END $$`},
		{"accounts created_at index", `CREATE INDEX IF NOT EXISTS idx_accounts_created_at ON accounts (created_at)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("infra: patch %q: %w", p.descr, err)
		}
	}
	return nil
}
