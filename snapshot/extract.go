// CLAUDE:SUMMARY Extracts a read-only broadcast fragment from the live table markup: hides suppressed columns, strips interactive elements.
package snapshot

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/showgrid/broadcast/columns"
)

// Class markers the editor attaches to its interactive chrome. Elements
// carrying any of these are removed from the snapshot entirely.
var interactiveMarkers = []string{"drag-handle", "row-actions", "note-tool"}

// Extractor turns the live table markup into a static broadcast fragment.
type Extractor struct {
	policy *bluemonday.Policy
	logger *slog.Logger
}

// NewExtractor creates an Extractor. A nil logger falls back to slog.Default.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		policy: broadcastPolicy(),
		logger: logger,
	}
}

// Extract captures src into a Snapshot. Parsing produces a fully
// independent tree, so the source markup is never observable through the
// result. Suppressed columns are hidden (display:none keeps alignment for
// rows missing a key), interactive elements are removed, drag markers are
// stripped, and the rendered fragment passes through the sanitization
// policy so the result carries no executable content by construction.
func (e *Extractor) Extract(src *Source) (*Snapshot, error) {
	if src == nil || strings.TrimSpace(src.Markup) == "" {
		return nil, ErrNoSource
	}

	container := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(src.Markup), container)
	if err != nil {
		return nil, fmt.Errorf("parse source markup: %w", err)
	}

	for _, n := range nodes {
		container.AppendChild(n)
	}

	suppressed := columns.Suppressed(src.Columns)
	e.clean(container, suppressed)

	var buf bytes.Buffer
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return nil, fmt.Errorf("render fragment: %w", err)
		}
	}

	markup := e.policy.Sanitize(buf.String())
	e.logger.Debug("snapshot extracted",
		"bytes", len(markup), "suppressed_columns", len(suppressed))

	return &Snapshot{Markup: markup, StyleSheet: StyleSheet()}, nil
}

// clean walks the subtree under n, removing interactive elements, hiding
// suppressed columns, and stripping drag attributes. Children are
// captured before removal so deletion is safe mid-walk.
func (e *Extractor) clean(n *html.Node, suppressed map[string]bool) {
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling

		if c.Type == html.ElementNode {
			if isInteractive(c) {
				n.RemoveChild(c)
				continue
			}
			stripDragAttrs(c)
			if isColumnNode(c) {
				if key := attrVal(c, "data-col"); key != "" && suppressed[key] {
					hideNode(c)
				}
			}
		}
		e.clean(c, suppressed)
	}
}

// isInteractive reports whether the element is an editor affordance:
// a form control or an element carrying an interactive class marker.
func isInteractive(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Button, atom.Input, atom.Select, atom.Textarea:
		return true
	}
	class := attrVal(n, "class")
	if class == "" {
		return false
	}
	for _, token := range strings.Fields(class) {
		for _, marker := range interactiveMarkers {
			if token == marker {
				return true
			}
		}
	}
	return false
}

// isColumnNode reports whether n is a structural column node: a column
// definition, a header cell, or a body cell.
func isColumnNode(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Col, atom.Th, atom.Td:
		return true
	}
	return false
}

// stripDragAttrs removes drag-enabling and inline-handler attributes.
func stripDragAttrs(n *html.Node) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		key := strings.ToLower(a.Key)
		switch {
		case key == "draggable":
		case strings.HasPrefix(key, "ondrag"):
		case strings.HasPrefix(key, "data-drag"):
		case strings.HasPrefix(key, "on"):
		default:
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}

// hideNode removes the element from layout without deleting it, so column
// alignment survives rows that are missing a suppressed key.
func hideNode(n *html.Node) {
	for i, a := range n.Attr {
		if a.Key == "style" {
			val := strings.TrimRight(strings.TrimSpace(a.Val), ";")
			if val != "" {
				val += "; "
			}
			n.Attr[i].Val = val + "display:none"
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: "display:none"})
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// broadcastPolicy is the sanitization gate on the extracted fragment:
// presentational table markup only, inline styles preserved, no script
// content and no event handlers survive it.
func broadcastPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"table", "colgroup", "col", "caption", "thead", "tbody", "tfoot",
		"tr", "th", "td",
		"div", "span", "p", "br", "hr",
		"ul", "ol", "li",
		"strong", "em", "b", "i", "u", "s", "small", "sub", "sup",
	)
	p.AllowAttrs("style").Globally()
	p.AllowAttrs("data-col", "data-row-type", "data-done").Globally()
	p.AllowAttrs("colspan", "rowspan", "scope", "span", "width").OnElements("col", "th", "td")
	p.AllowElements("a")
	p.AllowAttrs("href").OnElements("a")
	p.AllowStandardURLs()
	p.RequireNoFollowOnLinks(true)
	return p
}
