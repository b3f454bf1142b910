package history

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

const DatabaseName = "exported_history.db"

//go:embed migrations/*.sql
var migrationFS embed.FS

var _ Store = (*SQLiteStore)(nil)

type SQLiteStore struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

// NewSQLiteStore returns a store for the history database in dir. The file is
// opened and migrated on first use; a failed open is retried on the next call
// so a corrupt database fails the run rather than the process.
func NewSQLiteStore(dir string) *SQLiteStore {
	return &SQLiteStore{path: filepath.Join(dir, DatabaseName)}
}

func (s *SQLiteStore) open(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	version, dirty, err := runMigrations(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	slog.Debug("History database ready", "path", s.path, "version", version, "dirty", dirty)

	s.db = db
	return db, nil
}

func runMigrations(db *sql.DB) (uint, bool, error) {
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return 0, false, fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return 0, false, fmt.Errorf("failed to create iofs source: %w", err)
	}
	// m.Close would also close db, so only the source is released.
	defer source.Close()

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return 0, false, fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}

	return version, dirty, nil
}

func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Load(ctx context.Context) (*Set, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT title, watched_date FROM exported_keys`)
	if err != nil {
		return nil, fmt.Errorf("%w: query exported keys: %v", ErrUnreadable, err)
	}
	defer rows.Close()

	set := NewSet()
	for rows.Next() {
		var title, watchedDate string
		if err := rows.Scan(&title, &watchedDate); err != nil {
			return nil, fmt.Errorf("%w: scan exported key: %v", ErrUnreadable, err)
		}
		set.Add(NewKey(title, watchedDate))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate exported keys: %v", ErrUnreadable, err)
	}

	return set, nil
}

// Persist inserts every key of the set; rows are never deleted, so the stored
// history only grows.
func (s *SQLiteStore) Persist(ctx context.Context, set *Set) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO exported_keys (title, watched_date) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare history insert: %w", err)
	}
	defer stmt.Close()

	for _, key := range set.Keys() {
		if _, err := stmt.ExecContext(ctx, key.Title, key.WatchedDate); err != nil {
			return fmt.Errorf("failed to insert history key %q: %w", key.String(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
