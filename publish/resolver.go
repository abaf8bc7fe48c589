// CLAUDE:SUMMARY Identity resolver: maps (owner, derived file name) to at most one broadcast record, cache first.
package publish

import (
	"context"
	"fmt"

	"github.com/showgrid/broadcast/identity"
)

// Resolver guarantees the one-record-per-source-document invariant for
// the coordinator. It derives the file name from the title, consults the
// session cache, and only then asks the record store.
type Resolver struct {
	records RecordStore
	session *Session
}

// NewResolver builds a Resolver over the given store and session.
func NewResolver(records RecordStore, session *Session) *Resolver {
	return &Resolver{records: records, session: session}
}

// Resolve returns the existing record for (ownerID, title) or nil when a
// create is needed, together with the derived file name. A missing owner
// identity is a precondition failure reported before any store call.
func (r *Resolver) Resolve(ctx context.Context, ownerID, title string) (*Record, string, error) {
	if ownerID == "" {
		return nil, "", fmt.Errorf("%w: owner unresolved", ErrAuth)
	}
	fileName := identity.DeriveFileName(title)

	if cached := r.session.CachedRecord(); cached != nil &&
		cached.OwnerID == ownerID && cached.FileName == fileName {
		return cached, fileName, nil
	}

	rec, err := r.records.Find(ctx, ownerID, fileName)
	if err != nil {
		return nil, "", fmt.Errorf("%w: find %s/%s: %w", ErrStore, ownerID, fileName, err)
	}
	return rec, fileName, nil
}
