// CLAUDE:SUMMARY Broadcast record model, publish options/result, and collaborator interfaces.
package publish

import (
	"context"
	"time"
)

// User is the authenticated owner identity a broadcast is published under.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Record is the durable published entity. At most one Record exists per
// (OwnerID, FileName) pair — that pair is the de-duplication key, not the
// code. The code is generated once at creation and never changes.
type Record struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	OwnerID    string    `json:"owner_id"`
	FileName   string    `json:"file_name"`
	Title      string    `json:"title"`
	AutoUpdate bool      `json:"auto_update"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Fields are the mutable record fields written on every re-publish.
// ID and Code are deliberately absent: they never change in place.
type Fields struct {
	Title      string
	AutoUpdate bool
	UpdatedAt  time.Time
}

// Options parameterize one publish call.
type Options struct {
	// Title overrides the source document's title metadata. Empty falls
	// back to the source title, then to the default literal.
	Title string `json:"title,omitempty"`

	// AutoUpdate records whether this broadcast should be re-published on
	// every save. The save hook always publishes with AutoUpdate true.
	AutoUpdate bool `json:"auto_update,omitempty"`
}

// Result is the externally shareable outcome of a publish. Derived, not
// stored.
type Result struct {
	Code  string `json:"code"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// AuthProvider supplies the current authenticated identity.
// A nil user with nil error means "not authenticated".
type AuthProvider interface {
	CurrentUser(ctx context.Context) (*User, error)
}

// RecordStore is the remote store of broadcast records. Find returns
// (nil, nil) when no record exists for the natural key. The store must
// enforce (owner, fileName) uniqueness itself; a racing duplicate create
// surfaces as an error here and is not retried by this layer.
type RecordStore interface {
	Find(ctx context.Context, ownerID, fileName string) (*Record, error)
	Create(ctx context.Context, rec *Record) error
	Update(ctx context.Context, id string, f Fields) (*Record, error)
}

// UploadOptions accompany a blob upload.
type UploadOptions struct {
	CacheControl string
	ContentType  string
}

// BlobStore holds published snapshot bodies keyed by owner/fileName.
// Remove is best-effort: absence is not an error.
type BlobStore interface {
	Remove(ctx context.Context, path string) error
	Upload(ctx context.Context, path string, body []byte, opts UploadOptions) error
}

// Settings is the persisted key-value store backing session state.
// Get returns ("", nil) for an absent key.
type Settings interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
