// CLAUDE:SUMMARY SQLite audit trail for publish events, with sync and buffered async logging.
// Package audit records publish events (create, update, auto-publish,
// failures) in a SQLite audit_log table. Logging is best-effort and must
// never block or fail the publish flow, so the async path buffers entries
// and flushes them in batches from a background goroutine.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_log (
    entry_id      TEXT PRIMARY KEY,
    timestamp     INTEGER NOT NULL,
    action        TEXT NOT NULL,
    user_id       TEXT NOT NULL DEFAULT '',
    code          TEXT NOT NULL DEFAULT '',
    file_name     TEXT NOT NULL DEFAULT '',
    status        TEXT NOT NULL,
    error_message TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_audit_action ON audit_log(action, timestamp);
`

// batchSize is the async flush threshold.
const batchSize = 32

// Entry is one audit record. Zero fields are filled in by the logger:
// EntryID, Timestamp, and Status (success unless Error is set).
type Entry struct {
	EntryID   string
	Timestamp int64
	Action    string
	UserID    string
	Code      string
	FileName  string
	Status    string
	Error     string
}

// Sink accepts entries without blocking the caller. The publish flow
// depends on this interface only, so tests can capture entries in memory.
type Sink interface {
	LogAsync(entry *Entry)
}

// SQLiteLogger writes audit entries to a SQLite table.
type SQLiteLogger struct {
	db    *sql.DB
	idGen func() string

	ch     chan *Entry
	wg     sync.WaitGroup
	closed sync.Once
}

// Option configures a SQLiteLogger.
type Option func(*SQLiteLogger)

// WithIDGenerator overrides entry id generation.
func WithIDGenerator(gen func() string) Option {
	return func(l *SQLiteLogger) { l.idGen = gen }
}

// NewSQLiteLogger creates a logger over an open database. Call Init
// before logging and Close to flush pending async entries.
func NewSQLiteLogger(db *sql.DB, opts ...Option) *SQLiteLogger {
	l := &SQLiteLogger{
		db:    db,
		idGen: func() string { return uuid.Must(uuid.NewV7()).String() },
		ch:    make(chan *Entry, 256),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.wg.Add(1)
	go l.flusher()
	return l
}

// Init creates the audit_log table if it does not exist.
func (l *SQLiteLogger) Init() error {
	_, err := l.db.Exec(schema)
	return err
}

// Log writes one entry synchronously, filling defaults in place.
func (l *SQLiteLogger) Log(ctx context.Context, entry *Entry) error {
	l.fillDefaults(entry)
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO audit_log (entry_id, timestamp, action, user_id, code, file_name, status, error_message)
		 VALUES (?,?,?,?,?,?,?,?)`,
		entry.EntryID, entry.Timestamp, entry.Action, entry.UserID,
		entry.Code, entry.FileName, entry.Status, entry.Error)
	if err != nil {
		return fmt.Errorf("audit insert: %w", err)
	}
	return nil
}

// LogAsync queues an entry for background insertion. When the buffer is
// full the entry is dropped: audit must never block a publish.
func (l *SQLiteLogger) LogAsync(entry *Entry) {
	l.fillDefaults(entry)
	select {
	case l.ch <- entry:
	default:
	}
}

// Close flushes pending async entries and stops the flusher.
func (l *SQLiteLogger) Close() error {
	l.closed.Do(func() { close(l.ch) })
	l.wg.Wait()
	return nil
}

func (l *SQLiteLogger) fillDefaults(entry *Entry) {
	if entry.EntryID == "" {
		entry.EntryID = l.idGen()
	}
	if entry.Timestamp == 0 {
		entry.Timestamp = time.Now().UnixMilli()
	}
	if entry.Status == "" {
		if entry.Error != "" {
			entry.Status = "error"
		} else {
			entry.Status = "success"
		}
	}
}

// flusher drains the channel, inserting in batches of batchSize.
func (l *SQLiteLogger) flusher() {
	defer l.wg.Done()

	batch := make([]*Entry, 0, batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		tx, err := l.db.Begin()
		if err != nil {
			batch = batch[:0]
			return
		}
		for _, e := range batch {
			tx.Exec(
				`INSERT INTO audit_log (entry_id, timestamp, action, user_id, code, file_name, status, error_message)
				 VALUES (?,?,?,?,?,?,?,?)`,
				e.EntryID, e.Timestamp, e.Action, e.UserID, e.Code, e.FileName, e.Status, e.Error)
		}
		tx.Commit()
		batch = batch[:0]
	}

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-l.ch:
			if !ok {
				flush()
				return
			}
			batch = append(batch, e)
			if len(batch) >= batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
