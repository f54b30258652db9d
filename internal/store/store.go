// Package store implements C4: the relational symbol store. Persistence
// is enriched from the pack's termfx-morfx repo, whose db/sqlite.go is
// the closest pack example of a GORM-over-SQLite store wired to a CLI
// tool — the teacher itself keeps its symbol table in memory, but
// spec.md §6 requires a real relational schema.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/codegraf/codegraf/internal/model"
)

// Store wraps the run's single GORM connection. Per spec.md §5,
// persistence uses one connection per run and wraps each phase in its
// own transaction — callers open one Store per indexing run.
type Store struct {
	DB *gorm.DB
}

// Open connects to dsn (a SQLite file path) and runs AutoMigrate for
// every model in the symbol graph.
func Open(dsn string, debug bool) (*Store, error) {
	if dsn != ":memory:" {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("store: create db directory: %w", err)
			}
		}
	}

	cfg := &gorm.Config{}
	if debug {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Exec("PRAGMA foreign_keys = ON")
	} else {
		return nil, fmt.Errorf("store: underlying sql.DB: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}

	return &Store{DB: db}, nil
}

// Migrate is the indexer's migration mechanism: AutoMigrate against the
// full symbol-graph schema. There is no separate schema-migration
// subsystem in scope (spec.md Non-goals) — AutoMigrate is the whole of
// it, run once at Store.Open.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Symbol{},
		&model.Parameter{},
		&model.Relationship{},
		&model.PendingRelationship{},
		&model.FileRecord{},
		&model.ClassHierarchy{},
		&model.ModuleRecord{},
		&model.Pattern{},
		&model.PatternCacheEntry{},
	)
}

func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Conn exposes the underlying *sql.DB for callers that need raw access
// (e.g. PRAGMA tuning in tests).
func (s *Store) Conn() (*sql.DB, error) {
	return s.DB.DB()
}
