// CLAUDE:SUMMARY Filesystem blob store for published snapshot bodies: staged write, atomic rename, best-effort remove.
// Package blob stores published snapshot bodies under a root directory,
// keyed by owner/fileName paths. Writes are staged to a temp file and
// renamed into place so a reader never observes a partial body.
package blob

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/showgrid/broadcast/publish"
)

// Dir is a filesystem-backed publish.BlobStore. CacheControl and
// ContentType are accepted for interface fidelity; serving headers are
// the viewer's concern for a local directory.
type Dir struct {
	root string
}

// NewDir creates a blob store rooted at root, creating it if needed.
func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &Dir{root: root}, nil
}

// Upload writes body at path. Any prior content at the exact key must
// have been removed first: the publish flow is remove-then-upload, and a
// still-present file is refused rather than silently overwritten.
func (d *Dir) Upload(ctx context.Context, path string, body []byte, opts publish.UploadOptions) error {
	full, err := d.resolve(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(full); err == nil {
		return fmt.Errorf("upload %s: object already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("prepare dir: %w", err)
	}

	// Stage under a random name, then rename into place.
	var suffix [8]byte
	if _, err := rand.Read(suffix[:]); err != nil {
		return fmt.Errorf("generate staging suffix: %w", err)
	}
	staging := full + ".incoming-" + hex.EncodeToString(suffix[:])
	if err := os.WriteFile(staging, body, 0o644); err != nil {
		return fmt.Errorf("stage %s: %w", path, err)
	}
	if err := os.Rename(staging, full); err != nil {
		os.Remove(staging)
		return fmt.Errorf("commit %s: %w", path, err)
	}
	return nil
}

// Remove deletes the object at path. Absence is not an error.
func (d *Dir) Remove(ctx context.Context, path string) error {
	full, err := d.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// Open reads the object at path. Returns fs.ErrNotExist when absent.
func (d *Dir) Open(ctx context.Context, path string) ([]byte, error) {
	full, err := d.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}

// resolve maps a storage key to a filesystem path, refusing traversal.
// Keys are owner/fileName shaped; both parts are already derived from
// restricted alphabets, this is defense at the boundary.
func (d *Dir) resolve(path string) (string, error) {
	if path == "" || strings.HasPrefix(path, "/") || strings.Contains(path, "..") ||
		strings.Contains(path, "\\") {
		return "", fmt.Errorf("invalid blob path %q", path)
	}
	return filepath.Join(d.root, filepath.FromSlash(path)), nil
}
