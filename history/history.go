// Package history persists purge records to a local sqlite database so
// past runs can be reviewed from the command line.
package history

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/devpurge/devpurge/purge"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is a sqlite-backed record of completed purges.
type Store struct {
	db *sql.DB
}

// Open creates the database directory and file if needed, applies any
// pending migrations, and returns a ready Store.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history db: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Save inserts one purge record.
func (s *Store) Save(rec purge.Record) error {
	_, err := s.db.Exec(`
		INSERT INTO purge_records
			(id, purged_at, artifact_size, artifact_count, cache_size, cache_count)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Date.UTC(),
		rec.Artifacts.Size, rec.Artifacts.Count,
		rec.Caches.Size, rec.Caches.Count,
	)
	if err != nil {
		return fmt.Errorf("save purge record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(limit int) ([]purge.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, purged_at, artifact_size, artifact_count, cache_size, cache_count
		FROM purge_records
		ORDER BY purged_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query purge records: %w", err)
	}
	defer rows.Close()

	var recs []purge.Record
	for rows.Next() {
		var rec purge.Record
		var at time.Time
		if err := rows.Scan(&rec.ID, &at,
			&rec.Artifacts.Size, &rec.Artifacts.Count,
			&rec.Caches.Size, &rec.Caches.Count); err != nil {
			return nil, fmt.Errorf("scan purge record: %w", err)
		}
		rec.Date = at
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
