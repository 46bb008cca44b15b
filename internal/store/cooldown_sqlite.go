package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current cooldown schema version. Bump this when
// the schema changes; mismatched databases must be deleted.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match
// the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// SQLiteCooldownStore persists cooldown state in an embedded SQLite
// database.
type SQLiteCooldownStore struct {
	db   *sql.DB
	path string
}

// OpenSQLiteCooldownStore connects to the cooldown database at path,
// creating and migrating it as needed.
func OpenSQLiteCooldownStore(path string) (*SQLiteCooldownStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &SQLiteCooldownStore{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *SQLiteCooldownStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteCooldownStore) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *SQLiteCooldownStore) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Load reads every cooldown row.
func (s *SQLiteCooldownStore) Load() (Cooldowns, error) {
	rows, err := s.db.Query("SELECT channel_id, catalog_id, last_played FROM cooldowns")
	if err != nil {
		return nil, fmt.Errorf("query cooldowns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cooldowns := make(Cooldowns)
	for rows.Next() {
		var channelID, lastPlayed string
		var catalogID int64
		if err := rows.Scan(&channelID, &catalogID, &lastPlayed); err != nil {
			return nil, fmt.Errorf("scan cooldown row: %w", err)
		}
		cooldowns.Mark(channelID, catalogID, lastPlayed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cooldowns: %w", err)
	}
	return cooldowns, nil
}

// Save replaces the stored cooldown state in one transaction.
func (s *SQLiteCooldownStore) Save(cooldowns Cooldowns) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin cooldown tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM cooldowns"); err != nil {
		return fmt.Errorf("clear cooldowns: %w", err)
	}
	stmt, err := tx.Prepare("INSERT INTO cooldowns (channel_id, catalog_id, last_played) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare cooldown insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for channelID, items := range cooldowns {
		for catalogID, lastPlayed := range items {
			if _, err := stmt.Exec(channelID, catalogID, lastPlayed); err != nil {
				return fmt.Errorf("insert cooldown %s/%d: %w", channelID, catalogID, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cooldowns: %w", err)
	}
	return nil
}
