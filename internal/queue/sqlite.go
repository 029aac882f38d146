package queue

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gistly-app/gistly/internal/dbx"
	"github.com/gistly-app/gistly/internal/filex"
	"github.com/gistly-app/gistly/internal/queue/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const (
	dbFileName     = "queue.db"
	attachmentsDir = "attachments"
)

// SQLiteStore implements Store on a SQLite database inside the shared
// directory. SQLite's file locking serializes readers and writers across
// processes, and DrainAll runs its read-then-clear inside one transaction,
// which makes the drain atomic with respect to appends from the other
// process.
type SQLiteStore struct {
	db    *sql.DB
	files string
}

// OpenSQLiteStore opens (creating if needed) the shared queue database under
// sharedDir and applies pending schema migrations.
func OpenSQLiteStore(ctx context.Context, sharedDir string) (*SQLiteStore, error) {
	dir, err := filex.EnsureDir(sharedDir)
	if err != nil {
		return nil, fmt.Errorf("shared dir: %w", err)
	}
	files, err := filex.EnsureSubDir(dir, attachmentsDir)
	if err != nil {
		return nil, fmt.Errorf("attachments dir: %w", err)
	}

	dsn := "file:" + filepath.Join(dir, dbFileName) +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open queue db: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate queue db: %w", err)
	}

	return &SQLiteStore{db: db, files: files}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Append adds one entry to the end of the pending sequence.
func (s *SQLiteStore) Append(ctx context.Context, e Entry) error {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	query := `INSERT INTO queue_entries (kind, content, filename, size, created_at)
			VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		string(e.Kind), e.Content, e.Filename, e.Size, createdAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to append entry: %w", err)
	}
	return nil
}

// DrainAll returns all pending entries in append order and clears the table,
// both inside one transaction.
func (s *SQLiteStore) DrainAll(ctx context.Context) ([]Entry, error) {
	var drained []Entry

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		rows, err := tx.QueryContext(ctx,
			`SELECT kind, content, filename, size, created_at FROM queue_entries ORDER BY seq`)
		if err != nil {
			return fmt.Errorf("failed to select entries: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var (
				e  Entry
				k  string
				ts string
			)
			if err := rows.Scan(&k, &e.Content, &e.Filename, &e.Size, &ts); err != nil {
				return err
			}
			e.Kind = EntryKind(k)
			if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
				e.CreatedAt = parsed
			}
			drained = append(drained, e)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM queue_entries`); err != nil {
			return fmt.Errorf("failed to clear entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if drained == nil {
		drained = []Entry{}
	}
	return drained, nil
}

// WriteFile stores data in the shared attachments directory under the
// original filename (path components stripped) and returns the stable path.
func (s *SQLiteStore) WriteFile(name string, data []byte) (string, error) {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("invalid attachment name %q", name)
	}
	path := filepath.Join(s.files, base)
	if err := os.WriteFile(path, data, 0o660); err != nil {
		return "", fmt.Errorf("write attachment %s: %w", base, err)
	}
	return path, nil
}

// ReadFile loads an attachment previously stored with WriteFile. Paths
// outside the shared attachments directory are rejected.
func (s *SQLiteStore) ReadFile(path string) ([]byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if filepath.Dir(abs) != s.files {
		return nil, fmt.Errorf("attachment path %q outside shared directory", path)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}
	return data, nil
}
