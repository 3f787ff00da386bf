// Package normalize canonicalizes user-entered identity fields before they
// are matched or stored. Lookups and uniqueness checks always run on the
// normalized form.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Username lowercases and trims a login username.
func Username(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}
