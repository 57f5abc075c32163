// Package search provides the message-search entry point for the Driftmesh
// server: it sanitizes and parses a raw query string, translates it for the
// configured engine's capability tier, executes it scoped to a set of rooms
// and indexed keys, and normalizes the results into a single shape
// regardless of which engine served the query.
package search

import (
	"context"
	"fmt"

	"github.com/driftmesh/roomsearch/pkg/engine"
	"github.com/driftmesh/roomsearch/pkg/log"
	"github.com/driftmesh/roomsearch/pkg/query"
	"github.com/driftmesh/roomsearch/pkg/sanitize"
)

// Results is the normalized outcome of one search call.
type Results struct {
	// Count is the number of distinct matching message events, not the
	// number of term occurrences.
	Count int

	// Results holds one match per distinct event, in engine rank order.
	Results []engine.Match

	// Highlights holds the deduplicated matched term fragments across all
	// results. It is populated only when the executing tier supports
	// highlighting and at least one event matched; engines without
	// structured syntax never produce highlights.
	Highlights []string
}

// Service executes searches against a single engine. A Service is safe for
// concurrent use; every call is an independent request-response operation.
type Service struct {
	engine engine.Engine
	logger *log.Logger
}

// New creates a search service backed by the given engine.
func New(eng engine.Engine) *Service {
	return &Service{
		engine: eng,
		logger: log.ForEngine("search"),
	}
}

// SearchMessages searches the given rooms for messages matching rawQuery in
// the given indexed keys.
//
// The query may use web search syntax (quoted phrases, OR, -term) and may
// contain null bytes; both are handled internally and never cause an error.
// An empty room set yields zero results. Unknown keys contribute no matches.
// Engine failures and context cancellation are returned unchanged apart
// from message wrapping.
func (s *Service) SearchMessages(ctx context.Context, roomIDs []string, rawQuery string, keys []string) (*Results, error) {
	if len(roomIDs) == 0 {
		return &Results{}, nil
	}

	parsed := query.Parse(sanitize.Clean(rawQuery))

	capability, err := s.engine.Capability(ctx)
	if err != nil {
		return nil, fmt.Errorf("probing engine capability: %w", err)
	}

	translated := query.Translate(parsed, capability)
	s.logger.Debugf("tier %s: %q -> %q", capability, rawQuery, translated)

	matches, err := s.engine.Search(ctx, translated, roomIDs, keys)
	if err != nil {
		return nil, fmt.Errorf("executing search: %w", err)
	}

	return normalize(matches, capability), nil
}

// normalize converts raw engine matches into the public result shape.
// Matches are deduplicated by event (a message matching on several keys
// counts once) and highlights are collected across all raw matches, only
// when the executing tier actually evaluated term boundaries.
func normalize(matches []engine.Match, capability engine.Capability) *Results {
	results := &Results{}
	seenEvents := make(map[string]struct{}, len(matches))
	seenHighlights := make(map[string]struct{})

	for _, m := range matches {
		if _, ok := seenEvents[m.EventID]; !ok {
			seenEvents[m.EventID] = struct{}{}
			results.Results = append(results.Results, m)
		}
		if !capability.SupportsHighlights() {
			continue
		}
		for _, h := range m.Highlights {
			if _, ok := seenHighlights[h]; ok {
				continue
			}
			seenHighlights[h] = struct{}{}
			results.Highlights = append(results.Highlights, h)
		}
	}

	results.Count = len(results.Results)
	return results
}
