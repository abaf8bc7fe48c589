// CLAUDE:SUMMARY Session state: persisted auto-publish toggle plus the in-process current-broadcast cache.
package publish

import (
	"context"
	"log/slog"
	"sync"
)

// AutoPublishKey is the settings key persisting the auto-publish toggle.
const AutoPublishKey = "broadcast.auto_publish"

// Session is the explicit per-process context the coordinator works in:
// the auto-publish toggle (persisted through Settings) and the cached
// current broadcast record. The cache is authoritative for one process
// lifetime and is never persisted. The lock only isolates individual
// reads and writes — find-then-create across two publishes can still
// race, which is why the record store carries the uniqueness constraint.
type Session struct {
	settings Settings
	logger   *slog.Logger

	mu          sync.Mutex
	autoPublish bool
	cached      *Record
}

// NewSession builds a Session, reading the persisted auto-publish flag.
// Absent or unparseable values default to disabled.
func NewSession(ctx context.Context, settings Settings, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{settings: settings, logger: logger}
	if settings != nil {
		val, err := settings.Get(ctx, AutoPublishKey)
		if err != nil {
			logger.Warn("session: reading auto-publish flag failed, defaulting off", "error", err)
		} else {
			s.autoPublish = val == "1" || val == "true"
		}
	}
	return s
}

// AutoPublishEnabled reports the toggle.
func (s *Session) AutoPublishEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoPublish
}

// SetAutoPublish flips the toggle and persists it immediately.
func (s *Session) SetAutoPublish(ctx context.Context, enabled bool) error {
	s.mu.Lock()
	s.autoPublish = enabled
	s.mu.Unlock()

	if s.settings == nil {
		return nil
	}
	val := "0"
	if enabled {
		val = "1"
	}
	return s.settings.Set(ctx, AutoPublishKey, val)
}

// CachedRecord returns the current broadcast cached by the last
// successful publish, or nil.
func (s *Session) CachedRecord() *Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cached
}

// SetCachedRecord replaces the cached current broadcast.
func (s *Session) SetCachedRecord(rec *Record) {
	s.mu.Lock()
	s.cached = rec
	s.mu.Unlock()
}
