// CLAUDE:SUMMARY Publish coordinator: capture, identity resolution, snapshot upload, record upsert, shareable result.
// Package publish freezes a filtered view of the live schedule table into
// a static snapshot and reconciles it against the broadcast record store.
//
// One publish is an upsert by natural key: the snapshot body is uploaded
// to a location keyed by owner/fileName, then the broadcast record for
// that key is updated in place (preserving its code) or created with a
// freshly synthesized code. Either the full sequence completes and a
// Result is returned, or the document is not considered published.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/showgrid/broadcast/audit"
	"github.com/showgrid/broadcast/identity"
	"github.com/showgrid/broadcast/snapshot"
)

// DefaultTitle is used when neither the publish options nor the source
// document name the broadcast.
const DefaultTitle = "Schedule"

// snapshotCacheControl is set on uploaded snapshot bodies so viewers
// always revalidate against the latest re-publish.
const snapshotCacheControl = "no-cache"

// Config wires a Coordinator.
type Config struct {
	Auth       AuthProvider
	Records    RecordStore
	Blobs      BlobStore
	Source     snapshot.Provider
	Session    *Session
	ViewerBase string
	Logger     *slog.Logger

	// Audit, when set, receives one entry per publish outcome.
	Audit audit.Sink

	// NewCode and Now are overridable for tests.
	NewCode func() string
	Now     func() time.Time
}

// Coordinator orchestrates the snapshot/publish pipeline.
type Coordinator struct {
	auth       AuthProvider
	records    RecordStore
	blobs      BlobStore
	source     snapshot.Provider
	session    *Session
	resolver   *Resolver
	extractor  *snapshot.Extractor
	viewerBase string
	logger     *slog.Logger
	audit      audit.Sink
	newCode    func() string
	now        func() time.Time
}

// New creates a Coordinator.
func New(cfg Config) *Coordinator {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.NewCode == nil {
		cfg.NewCode = identity.NewCode
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Coordinator{
		auth:       cfg.Auth,
		records:    cfg.Records,
		blobs:      cfg.Blobs,
		source:     cfg.Source,
		session:    cfg.Session,
		resolver:   NewResolver(cfg.Records, cfg.Session),
		extractor:  snapshot.NewExtractor(cfg.Logger),
		viewerBase: cfg.ViewerBase,
		logger:     cfg.Logger,
		audit:      cfg.Audit,
		newCode:    cfg.NewCode,
		now:        cfg.Now,
	}
}

// Session returns the session context this coordinator operates in.
func (c *Coordinator) Session() *Session { return c.session }

func (c *Coordinator) auditLog(e *audit.Entry) {
	if c.audit != nil {
		c.audit.LogAsync(e)
	}
}

// Publish captures the configured source and publishes it.
func (c *Coordinator) Publish(ctx context.Context, opts Options) (*Result, error) {
	return c.PublishFrom(ctx, c.source, opts)
}

// PublishFrom runs the full publish sequence against the given source
// provider. Fails with ErrAuth (no identity, nothing contacted),
// ErrCapture (no source, nothing contacted) or ErrStore (remote failure,
// propagated verbatim, never retried).
func (c *Coordinator) PublishFrom(ctx context.Context, source snapshot.Provider, opts Options) (*Result, error) {
	// Precondition: identity before anything else.
	user, err := c.auth.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuth, err)
	}
	if user == nil || user.ID == "" {
		return nil, ErrAuth
	}

	// Local capture, before any remote interaction.
	if source == nil {
		return nil, fmt.Errorf("%w: %w", ErrCapture, snapshot.ErrNoSource)
	}
	src, err := source.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCapture, err)
	}
	snap, err := c.extractor.Extract(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCapture, err)
	}

	title := opts.Title
	if title == "" {
		title = src.Title
	}
	if title == "" {
		title = DefaultTitle
	}

	rec, fileName, err := c.resolver.Resolve(ctx, user.ID, title)
	if err != nil {
		return nil, err
	}

	// The upload target is file-identity-scoped: a title change that
	// changes the derived file name writes a new location and orphans the
	// old one. Remove-then-upload is an accepted at-most-once overwrite,
	// not a transaction.
	key := user.ID + "/" + fileName + ".html"
	if err := c.blobs.Remove(ctx, key); err != nil {
		c.logger.Warn("publish: removing prior snapshot failed", "key", key, "error", err)
	}
	body := []byte(snap.Document())
	if err := c.blobs.Upload(ctx, key, body, UploadOptions{
		CacheControl: snapshotCacheControl,
		ContentType:  "text/html; charset=utf-8",
	}); err != nil {
		c.auditLog(&audit.Entry{
			Action: "broadcast_publish", UserID: user.ID, FileName: fileName,
			Error: err.Error(),
		})
		return nil, fmt.Errorf("%w: upload %s: %w", ErrStore, key, err)
	}

	now := c.now().UTC()
	if rec == nil {
		rec = &Record{
			ID:         uuid.Must(uuid.NewV7()).String(),
			Code:       c.newCode(),
			OwnerID:    user.ID,
			FileName:   fileName,
			Title:      title,
			AutoUpdate: opts.AutoUpdate,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := c.records.Create(ctx, rec); err != nil {
			// A concurrent publish of the same document may have created
			// the record first; the store's uniqueness constraint is the
			// last line of defense and the conflict is the caller's to see.
			c.auditLog(&audit.Entry{
				Action: "broadcast_create", UserID: user.ID, FileName: fileName,
				Error: err.Error(),
			})
			return nil, fmt.Errorf("%w: create %s/%s: %w", ErrStore, user.ID, fileName, err)
		}
		c.logger.Info("broadcast created",
			"code", rec.Code, "owner", rec.OwnerID, "file_name", rec.FileName)
		c.auditLog(&audit.Entry{
			Action: "broadcast_create", UserID: user.ID,
			Code: rec.Code, FileName: fileName,
		})
	} else {
		updated, err := c.records.Update(ctx, rec.ID, Fields{
			Title:      title,
			AutoUpdate: opts.AutoUpdate,
			UpdatedAt:  now,
		})
		if err != nil {
			c.auditLog(&audit.Entry{
				Action: "broadcast_update", UserID: user.ID, FileName: fileName,
				Error: err.Error(),
			})
			return nil, fmt.Errorf("%w: update %s: %w", ErrStore, rec.ID, err)
		}
		rec = updated
		c.logger.Info("broadcast updated",
			"code", rec.Code, "owner", rec.OwnerID, "file_name", rec.FileName)
		c.auditLog(&audit.Entry{
			Action: "broadcast_update", UserID: user.ID,
			Code: rec.Code, FileName: fileName,
		})
	}

	c.session.SetCachedRecord(rec)

	return &Result{
		Code:  rec.Code,
		URL:   c.viewerBase + "?c=" + rec.Code,
		Title: title,
	}, nil
}
