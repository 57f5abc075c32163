package query

import (
	"strings"

	"github.com/driftmesh/roomsearch/pkg/engine"
)

// Translate renders a parsed query into the syntax a given capability tier
// can execute. The result is deterministic for a fixed (Query, Capability)
// pair and is owned by the caller for the duration of one search; translated
// queries are never cached across calls.
//
// FullWebSyntax re-emits the web syntax in place: phrases stay quoted, OR
// groups stay as OR, excluded terms keep their dash. PlainBestEffort strips
// quotes and passes operators through as literal tokens, degrading the query
// to an AND of terms; phrase adjacency and negation are lost at that tier by
// contract, not by accident. NoStructuredSyntax reduces the query to bare
// lowercase tokens.
func Translate(q Query, c engine.Capability) string {
	switch c {
	case engine.FullWebSyntax:
		return q.webSyntax()
	case engine.PlainBestEffort:
		return q.plainTerms()
	default:
		return q.bareTokens()
	}
}

// webSyntax re-emits the query in web search syntax, preserving the original
// order of terms, phrases and operators.
func (q Query) webSyntax() string {
	parts := make([]string, 0, len(q.segments))
	for _, seg := range q.segments {
		alts := make([]string, 0, len(seg.alts))
		for _, a := range seg.alts {
			alts = append(alts, a.webSyntax())
		}
		parts = append(parts, strings.Join(alts, " OR "))
	}
	return strings.Join(parts, " ")
}

func (a atom) webSyntax() string {
	s := strings.Join(a.tokens, " ")
	if a.phrase {
		s = `"` + s + `"`
	}
	if a.negated {
		s = "-" + s
	}
	return s
}

// plainTerms emits the query with quotes stripped. OR and dash prefixes stay
// in the output as literal tokens; engines at this tier treat every word as
// a required term.
func (q Query) plainTerms() string {
	parts := make([]string, 0, len(q.segments))
	for _, seg := range q.segments {
		alts := make([]string, 0, len(seg.alts))
		for _, a := range seg.alts {
			s := strings.Join(a.tokens, " ")
			if a.negated {
				s = "-" + s
			}
			alts = append(alts, s)
		}
		parts = append(parts, strings.Join(alts, " OR "))
	}
	return strings.Join(parts, " ")
}

// bareTokens reduces the query to plain word tokens with all operators
// stripped, for engines that only do token containment matching.
func (q Query) bareTokens() string {
	var toks []string
	for _, seg := range q.segments {
		for _, a := range seg.alts {
			toks = append(toks, a.tokens...)
		}
	}
	return strings.Join(toks, " ")
}
