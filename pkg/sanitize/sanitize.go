// Package sanitize strips characters the search index cannot store.
//
// Postgres tsvectors and SQLite FTS tables both reject NUL bytes, so every
// value is cleaned before it reaches an index and every query string is
// cleaned before it reaches an engine. Applying the same replacement on both
// sides keeps a message that contained a NUL findable by a query for the
// surrounding words.
package sanitize

import "strings"

// Clean replaces every NUL byte (U+0000) in text with a single space.
// All other characters pass through unchanged.
func Clean(text string) string {
	return strings.ReplaceAll(text, "\x00", " ")
}
