// CLAUDE:SUMMARY Defines Source, Snapshot and Provider types for the broadcast capture pipeline.
package snapshot

import (
	"context"
	"errors"

	"github.com/showgrid/broadcast/columns"
)

// ErrNoSource is returned when no live table can be located for capture.
// It is a reportable capture failure, not a fault: the publish flow must
// stop before any remote call, nothing panics.
var ErrNoSource = errors.New("snapshot: no source document")

// Source is the live table's structural model as exposed by the editor:
// the table markup, the current column configuration, and the project
// title metadata. It is a read-only input; extraction never mutates it.
type Source struct {
	// Markup is the editor table's HTML fragment.
	Markup string `json:"markup"`

	// Columns is the ordered per-column visibility configuration.
	Columns []columns.ColumnSpec `json:"columns,omitempty"`

	// Title is the project title metadata, used when the publish call
	// does not name the broadcast explicitly.
	Title string `json:"title,omitempty"`
}

// Snapshot is the immutable result of one capture: a presentation-only
// fragment with all interactive affordances stripped, plus the packaged
// stylesheet. It has no identity of its own and is not retained after
// upload.
type Snapshot struct {
	Markup     string
	StyleSheet string
}

// Document returns the self-contained published artifact: the stylesheet
// block followed by the root container holding the filtered table.
func (s *Snapshot) Document() string {
	return Compose(s.Markup)
}

// Provider exposes the current source document. The live editor supplies
// one implementation; tests use StaticProvider with a fixture.
type Provider interface {
	Current(ctx context.Context) (*Source, error)
}

// StaticProvider serves a fixed Source. A nil provider or nil source
// reports ErrNoSource, mirroring an absent live table.
type StaticProvider struct {
	Source *Source
}

// Current implements Provider.
func (p *StaticProvider) Current(ctx context.Context) (*Source, error) {
	if p == nil || p.Source == nil {
		return nil, ErrNoSource
	}
	return p.Source, nil
}
