// Package columns decides which schedule columns are eligible for broadcast.
//
// The editor owns the column configuration; this package only reads it.
// A column is suppressed when its print flag is off or when it is one of
// the built-in control columns that never make sense in a published view.
package columns

// ColumnSpec describes one column of the live schedule table.
type ColumnSpec struct {
	Key   string `json:"key" yaml:"key"`
	Print bool   `json:"print" yaml:"print"`
}

// Control columns carry editor affordances (drag handle, annotations,
// row actions) and are excluded from every broadcast.
var controlColumns = map[string]bool{
	"drag":    true,
	"note":    true,
	"actions": true,
}

// Suppressed returns the set of column keys to hide from a broadcast.
// A nil or empty configuration suppresses only the control columns.
func Suppressed(specs []ColumnSpec) map[string]bool {
	out := make(map[string]bool, len(specs)+len(controlColumns))
	for key := range controlColumns {
		out[key] = true
	}
	for _, spec := range specs {
		if spec.Key == "" {
			continue
		}
		if !spec.Print {
			out[spec.Key] = true
		}
	}
	return out
}

// IsControl reports whether key is one of the built-in control columns.
func IsControl(key string) bool { return controlColumns[key] }
