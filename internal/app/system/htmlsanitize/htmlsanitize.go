// Package htmlsanitize strips markup from catalog text before it is
// snapshotted into user documents. Requirement strings come from an
// externally managed catalog and are later rendered by web clients, so
// anything tag-shaped is removed at the boundary.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var strict = bluemonday.StrictPolicy()

// Text returns s with all HTML elements and attributes removed.
func Text(s string) string {
	return strict.Sanitize(s)
}
