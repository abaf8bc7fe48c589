// CLAUDE:SUMMARY Fixed, versioned stylesheet for published broadcasts and the artifact composer.
package snapshot

// StyleVersion identifies the packaged stylesheet generation. Bump when
// the published look changes; already-uploaded snapshots keep the version
// they were published with.
const StyleVersion = "v1"

// styleSheet is scoped under a single root class so the snapshot renders
// identically regardless of the host page. Selectors stay at element
// specificity, so inline styles on source cells always win. No external
// resources beyond font fallbacks.
const styleSheet = `.sg-broadcast {
  font-family: "Helvetica Neue", Arial, sans-serif;
  background: #ffffff;
  color: #1a1a1a;
  padding: 16px;
  line-height: 1.45;
}
.sg-broadcast table {
  border-collapse: collapse;
  table-layout: fixed;
  width: 100%;
}
.sg-broadcast th {
  background: #eef0f3;
  border: 1px solid #d4d7dc;
  padding: 6px 8px;
  text-align: left;
  font-weight: 600;
}
.sg-broadcast td {
  border: 1px solid #d4d7dc;
  padding: 6px 8px;
  vertical-align: top;
  overflow-wrap: break-word;
}
.sg-broadcast tbody tr:nth-child(even) {
  background: #fafbfc;
}
.sg-broadcast tr[data-done="1"] td {
  color: #9aa0a6;
  text-decoration: line-through;
}
.sg-broadcast tr[data-row-type="event"] td {
  background: #fff3d6;
}
.sg-broadcast tr[data-row-type="calltime"] td {
  background: #e3f0ff;
}
`

// StyleSheet returns the packaged stylesheet. It is a constant: every
// call yields the identical string.
func StyleSheet() string { return styleSheet }

// Compose wraps a filtered fragment into the self-contained published
// artifact: a <style> block followed by the scoped root container.
func Compose(markup string) string {
	return "<style>\n" + styleSheet + "</style>\n" +
		`<div class="sg-broadcast">` + "\n" + markup + "\n</div>\n"
}
