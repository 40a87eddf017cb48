// Package store owns all reads and writes against the tasks database.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrInvalid   = errors.New("validation")
	ErrInvalidID = errors.New("invalid id")

	timeNow = func() time.Time { return time.Now().UTC() }
)

const (
	StatusWIP  = "wip"
	StatusDone = "done"
)

const schemaVersion = 1

// Task is the sole entity. Nullable text columns read back as empty
// strings; empty strings are never persisted.
type Task struct {
	ID          int64  `db:"id" json:"id"`
	CustomID    string `db:"custom_id" json:"customId"`
	Category    string `db:"category" json:"category"`
	Name        string `db:"name" json:"name,omitempty"`
	Description string `db:"description" json:"description,omitempty"`
	Status      string `db:"status" json:"status"`
	Comment     string `db:"comment" json:"comment,omitempty"`
	CreatedAt   int64  `db:"created_at" json:"createdAt"`
	UpdatedAt   int64  `db:"updated_at" json:"updatedAt"`
}

// CategorySummary is one row of StatusSummary.
type CategorySummary struct {
	Category string `db:"category" json:"category"`
	WIP      int64  `db:"wip" json:"wip"`
	Done     int64  `db:"done" json:"done"`
}

type Store struct {
	db  *sqlx.DB
	log *logrus.Entry
}

// Open opens (creating if needed) the task database at path and ensures the
// schema exists. The caller must Close the store on every exit path.
func Open(path string, log *logrus.Entry) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_foreign_keys=on", path)
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		log.WithError(err).Error("open database")
		return nil, fmt.Errorf("open sqlite3: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, log: log}
	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.WithField("path", path).Debug("store opened")
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at INTEGER NOT NULL
		);
	`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations;`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if current > schemaVersion {
		return fmt.Errorf("db schema version %d is newer than supported %d", current, schemaVersion)
	}
	if current == schemaVersion {
		return tx.Commit()
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			custom_id TEXT NOT NULL,
			category TEXT NOT NULL,
			name TEXT,
			description TEXT,
			status TEXT NOT NULL DEFAULT 'wip' CHECK(status IN ('wip', 'done')),
			comment TEXT,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_custom_id_category
			ON tasks(custom_id, category);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_category_status
			ON tasks(category, status);`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO schema_migrations (version, applied_at)
		VALUES (?, ?);
	`, schemaVersion, timeNow().Unix()); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration tx: %w", err)
	}
	s.log.WithField("version", schemaVersion).Debug("schema migrated")
	return nil
}
