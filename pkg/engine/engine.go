// Package engine defines the contract between the search service and the
// full-text storage engines that execute queries.
//
// Engines differ in how much structured query syntax they understand. The
// service never branches on a concrete engine type; it asks the engine for
// its Capability and dispatches translation on that value instead.
package engine

import (
	"context"
	"fmt"
)

// Capability describes the level of structured-query support a live engine
// connection offers. It is decided once per connection and cached, unless a
// caller forces a specific tier to exercise fallback behavior.
type Capability int

const (
	// NoStructuredSyntax means the engine only matches plain tokens.
	// Phrases, OR and negation are stripped before execution and no
	// highlights are produced.
	NoStructuredSyntax Capability = iota

	// PlainBestEffort means the engine parses the query as an unordered
	// AND of terms. Quotes are stripped, OR and dash prefixes pass through
	// as literal tokens. Highlighting is available.
	PlainBestEffort

	// FullWebSyntax means the engine parses web search syntax natively:
	// quoted phrases, OR groups and negated terms all keep their meaning.
	// Highlighting is available.
	FullWebSyntax
)

// String returns the config-file spelling of the capability.
func (c Capability) String() string {
	switch c {
	case FullWebSyntax:
		return "web"
	case PlainBestEffort:
		return "plain"
	case NoStructuredSyntax:
		return "none"
	}
	return fmt.Sprintf("capability(%d)", int(c))
}

// ParseCapability converts a config-file spelling into a Capability.
func ParseCapability(s string) (Capability, error) {
	switch s {
	case "web":
		return FullWebSyntax, nil
	case "plain":
		return PlainBestEffort, nil
	case "none":
		return NoStructuredSyntax, nil
	}
	return NoStructuredSyntax, fmt.Errorf("unknown capability %q (want web, plain or none)", s)
}

// SupportsHighlights reports whether an engine at this tier evaluates term
// boundaries precisely enough to return highlight fragments.
func (c Capability) SupportsHighlights() bool {
	return c == FullWebSyntax || c == PlainBestEffort
}

// Match is one raw search hit as returned by an engine.
type Match struct {
	// EventID references the matched message event.
	EventID string

	// RoomID is the room the event belongs to.
	RoomID string

	// Key is the indexed field that matched, e.g. "content.body".
	Key string

	// Rank is the engine's relevance score. It is opaque: only its ordering
	// within a single engine's response is meaningful.
	Rank float64

	// Highlights holds the matched term or phrase fragments for this hit.
	// Only engines whose capability supports highlighting populate it.
	Highlights []string
}

// Entry is one indexable field value of a message event.
type Entry struct {
	EventID string
	RoomID  string
	Key     string
	Value   string
}

// Stats summarizes the contents of an engine's index.
type Stats struct {
	Entries int
	Rooms   int
}

// Engine is a live connection to a full-text search backend.
//
// Implementations must be safe for concurrent use. Search and Index honor
// context cancellation and surface backend failures unchanged; retry policy
// belongs to the caller.
type Engine interface {
	// Capability reports the translation tier this connection supports.
	// The probe runs at most once per connection unless the capability has
	// been forced, in which case the forced value wins on every call.
	Capability(ctx context.Context) (Capability, error)

	// Search executes an already translated query, scoped to the given
	// rooms and indexed keys. An empty room set yields no matches, never
	// all rooms. Unknown keys contribute no matches and no error.
	Search(ctx context.Context, translated string, roomIDs, keys []string) ([]Match, error)

	// Index stores entries in the full-text index, sanitizing values the
	// same way query strings are sanitized at search time.
	Index(ctx context.Context, entries []Entry) error

	// Stats reports index totals.
	Stats(ctx context.Context) (Stats, error)

	// Close releases the connection.
	Close() error
}
