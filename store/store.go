// CLAUDE:SUMMARY SQLite persistence for broadcast records and session settings.
// Package store persists broadcast records and the settings key-value
// table in SQLite. The UNIQUE(owner_id, file_name) constraint is the last
// line of defense for the one-record-per-source-document invariant when
// two publishes of the same document race.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/showgrid/broadcast/publish"
)

// Schema for the broadcast tables.
const Schema = `
CREATE TABLE IF NOT EXISTS broadcasts (
    id           TEXT PRIMARY KEY,
    code         TEXT NOT NULL UNIQUE,
    owner_id     TEXT NOT NULL,
    file_name    TEXT NOT NULL,
    title        TEXT NOT NULL,
    auto_update  INTEGER NOT NULL DEFAULT 0,
    created_at   TEXT NOT NULL,
    updated_at   TEXT NOT NULL,
    UNIQUE (owner_id, file_name)
);

CREATE TABLE IF NOT EXISTS settings (
    key          TEXT PRIMARY KEY,
    value        TEXT NOT NULL,
    updated_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_broadcasts_owner ON broadcasts(owner_id);
`

// ApplySchema creates the tables if they do not exist.
func ApplySchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// New wraps an open database. The caller owns the connection.
func New(db *sql.DB) *Store { return &Store{db: db} }

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA foreign_keys=ON")
	if err := ApplySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for sharing with other layers.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

// --- publish.RecordStore ---

const recordColumns = `id, code, owner_id, file_name, title, auto_update, created_at, updated_at`

// Find returns the record for the natural key, or nil when none exists.
func (s *Store) Find(ctx context.Context, ownerID, fileName string) (*publish.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM broadcasts WHERE owner_id = ? AND file_name = ?`,
		ownerID, fileName)
	return scanRecord(row)
}

// FindByCode returns the record for a share code, or nil when none exists.
func (s *Store) FindByCode(ctx context.Context, code string) (*publish.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM broadcasts WHERE code = ?`, code)
	return scanRecord(row)
}

// Create inserts a new record. A duplicate (owner_id, file_name) or code
// fails on the uniqueness constraints and is returned to the caller.
func (s *Store) Create(ctx context.Context, rec *publish.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO broadcasts (`+recordColumns+`) VALUES (?,?,?,?,?,?,?,?)`,
		rec.ID, rec.Code, rec.OwnerID, rec.FileName, rec.Title,
		boolInt(rec.AutoUpdate),
		rec.CreatedAt.UTC().Format(time.RFC3339),
		rec.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert broadcast: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a record in place, preserving its
// id and code, and returns the updated row.
func (s *Store) Update(ctx context.Context, id string, f publish.Fields) (*publish.Record, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE broadcasts SET title = ?, auto_update = ?, updated_at = ? WHERE id = ?`,
		f.Title, boolInt(f.AutoUpdate), f.UpdatedAt.UTC().Format(time.RFC3339), id)
	if err != nil {
		return nil, fmt.Errorf("update broadcast: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("update broadcast: no record with id %s", id)
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM broadcasts WHERE id = ?`, id)
	return scanRecord(row)
}

// ListByOwner returns all broadcasts of one owner, most recent first.
func (s *Store) ListByOwner(ctx context.Context, ownerID string) ([]*publish.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM broadcasts WHERE owner_id = ? ORDER BY updated_at DESC`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*publish.Record
	for rows.Next() {
		rec, err := scanRecordRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row *sql.Row) (*publish.Record, error) {
	rec, err := scanRecordRows(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

func scanRecordRows(row rowScanner) (*publish.Record, error) {
	var rec publish.Record
	var autoUpdate int
	var createdAt, updatedAt string
	if err := row.Scan(&rec.ID, &rec.Code, &rec.OwnerID, &rec.FileName,
		&rec.Title, &autoUpdate, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	rec.AutoUpdate = autoUpdate != 0
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &rec, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
