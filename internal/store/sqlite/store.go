package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/MrSnakeDoc/quicklink/internal/domain"
	"github.com/MrSnakeDoc/quicklink/internal/usage"
)

// DBFile is the database name inside the data directory.
const DBFile = "quicklink.db"

const schema = `
CREATE TABLE IF NOT EXISTS items (
	position     INTEGER NOT NULL,
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL DEFAULT '',
	value        TEXT NOT NULL,
	is_encrypted INTEGER NOT NULL DEFAULT 0,
	created_at   TIMESTAMP,
	updated_at   TIMESTAMP
);
CREATE TABLE IF NOT EXISTS commands (
	position   INTEGER PRIMARY KEY,
	definition TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS usage (
	key       TEXT PRIMARY KEY,
	use_count INTEGER NOT NULL,
	last_used TIMESTAMP
);`

// Store keeps items, commands and usage in one SQLite file. Every Save
// replaces the table contents inside a single transaction.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path with WAL journaling.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One writer at a time; SQLite serializes anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }

// --- Items ---

func (s *Store) LoadItems(ctx context.Context) ([]domain.StoredItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, value, is_encrypted, created_at, updated_at FROM items ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var out []domain.StoredItem
	for rows.Next() {
		var (
			it               domain.StoredItem
			created, updated sql.NullTime
		)
		if err := rows.Scan(&it.ID, &it.Title, &it.Value, &it.IsEncrypted, &created, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		it.CreatedAt = created.Time
		it.UpdatedAt = updated.Time
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *Store) SaveItems(ctx context.Context, items []domain.StoredItem) error {
	return s.replace(ctx, "items", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO items (position, id, title, value, is_encrypted, created_at, updated_at) VALUES (?,?,?,?,?,?,?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, it := range items {
			if _, err := stmt.ExecContext(ctx, i, it.ID, it.Title, it.Value, it.IsEncrypted, nullTime(it.CreatedAt), nullTime(it.UpdatedAt)); err != nil {
				return fmt.Errorf("failed to insert item %s: %w", it.ID, err)
			}
		}
		return nil
	})
}

// --- Commands ---

func (s *Store) LoadCommands(ctx context.Context) ([]domain.UserCommand, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT definition FROM commands ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query commands: %w", err)
	}
	defer rows.Close()

	var out []domain.UserCommand
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan command: %w", err)
		}
		var cmd domain.UserCommand
		if err := json.Unmarshal([]byte(raw), &cmd); err != nil {
			return nil, fmt.Errorf("failed to decode command: %w", err)
		}
		out = append(out, cmd)
	}
	return out, rows.Err()
}

func (s *Store) SaveCommands(ctx context.Context, commands []domain.UserCommand) error {
	return s.replace(ctx, "commands", func(tx *sql.Tx) error {
		for i, cmd := range commands {
			raw, err := json.Marshal(cmd)
			if err != nil {
				return fmt.Errorf("failed to encode command %s: %w", cmd.Prefix, err)
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO commands (position, definition) VALUES (?,?)`, i, string(raw)); err != nil {
				return fmt.Errorf("failed to insert command %s: %w", cmd.Prefix, err)
			}
		}
		return nil
	})
}

// --- Usage ---

func (s *Store) LoadUsage(ctx context.Context) (map[string]usage.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, use_count, last_used FROM usage`)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage: %w", err)
	}
	defer rows.Close()

	out := make(map[string]usage.Record)
	for rows.Next() {
		var (
			key      string
			r        usage.Record
			lastUsed sql.NullTime
		)
		if err := rows.Scan(&key, &r.UseCount, &lastUsed); err != nil {
			return nil, fmt.Errorf("failed to scan usage: %w", err)
		}
		r.LastUsed = lastUsed.Time
		out[key] = r
	}
	return out, rows.Err()
}

func (s *Store) SaveUsage(ctx context.Context, records map[string]usage.Record) error {
	return s.replace(ctx, "usage", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO usage (key, use_count, last_used) VALUES (?,?,?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for key, r := range records {
			if _, err := stmt.ExecContext(ctx, key, r.UseCount, nullTime(r.LastUsed)); err != nil {
				return fmt.Errorf("failed to insert usage %s: %w", key, err)
			}
		}
		return nil
	})
}

// replace empties table and refills it through fill, atomically.
func (s *Store) replace(ctx context.Context, table string, fill func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}
	if err := fill(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", table, err)
	}
	return nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t.UTC(), Valid: !t.IsZero()}
}
