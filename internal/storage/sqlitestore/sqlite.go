// Package sqlitestore backs storage.Store with a single SQLite file, for
// running the engine locally without Redis.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/spigell/jobmatch/internal/storage"
)

// busyTimeout is how long a writer waits on another process's lock before
// SQLITE_BUSY.
const busyTimeout = 5 * time.Second

type Store struct {
	db         *sql.DB
	maxRetries int
	logger     *zap.Logger
}

// Open opens (or creates) the database at path.
func Open(ctx context.Context, path string, maxRetries int, logger *zap.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("sqlite: mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: init schema: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = storage.DefaultMaxRetries
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{db: db, maxRetries: maxRetries, logger: logger}, nil
}

// dsn waits out locks held by other processes and takes the write lock when
// a transaction begins.
func dsn(path string) string {
	return fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_txlock=immediate", path, busyTimeout.Milliseconds())
}

// Revisions come from one counter shared by every key, so a key that is
// deleted and written again never reuses a revision.
func initSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key      TEXT PRIMARY KEY,
			value    TEXT NOT NULL,
			revision INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS kv_revision (
			id    INTEGER PRIMARY KEY CHECK (id = 1),
			value INTEGER NOT NULL
		)`,
		`INSERT OR IGNORE INTO kv_revision (id, value) SELECT 1, COALESCE(MAX(revision), 0) FROM kv`,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// write runs stmt with the next revision appended to args, in the same
// transaction that takes the revision. It reports the rows stmt changed.
func (s *Store) write(ctx context.Context, stmt string, args ...any) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var revision int64
	if err := tx.QueryRowContext(ctx,
		`UPDATE kv_revision SET value = value + 1 WHERE id = 1 RETURNING value`,
	).Scan(&revision); err != nil {
		return 0, fmt.Errorf("next revision: %w", err)
	}

	res, err := tx.ExecContext(ctx, stmt, append(args, revision)...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	return n, tx.Commit()
}

func (s *Store) Get(ctx context.Context, key string) (any, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.write(ctx,
		`INSERT INTO kv (key, value, revision) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, revision = excluded.revision`,
		key, value,
	)
	return err
}

func (s *Store) Del(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return err
}

// Update compares the revision read against the one written; a mismatch means
// another writer got in first and the whole read-modify-write is retried.
func (s *Store) Update(ctx context.Context, key string, fn storage.UpdateFunc) error {
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		var (
			value    string
			revision int64
			exists   = true
			current  any
		)

		err := s.db.QueryRowContext(ctx, `SELECT value, revision FROM kv WHERE key = ?`, key).Scan(&value, &revision)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			exists = false
		case err != nil:
			return err
		default:
			current = value
		}

		next, err := fn(current, exists)
		if err != nil {
			return err
		}

		var n int64
		if exists {
			n, err = s.write(ctx,
				`UPDATE kv SET value = ?1, revision = ?4 WHERE key = ?2 AND revision = ?3`,
				next, key, revision,
			)
		} else {
			n, err = s.write(ctx,
				`INSERT INTO kv (key, value, revision) VALUES (?, ?, ?) ON CONFLICT(key) DO NOTHING`,
				key, next,
			)
		}
		if err != nil {
			return err
		}
		if n == 1 {
			return nil
		}

		s.logger.Debug("sqlite revision changed, retrying",
			zap.String("key", key),
			zap.Int("attempt", attempt),
		)
	}

	return fmt.Errorf("update %q: %w", key, storage.ErrConflict)
}

func (s *Store) Close() error {
	return s.db.Close()
}
