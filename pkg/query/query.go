// Package query parses user search input and renders it for a target
// search engine.
//
// The input syntax is the informal "web search" convention: bare words are
// required terms, words joined by OR are alternatives, a leading dash
// excludes a word, and double quotes group words into a phrase that must
// match contiguously and in order. Parsing is total: malformed input never
// produces an error, it degrades to a plainer query instead.
package query

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// fold normalizes terms with Unicode case folding so that matching is
// case-insensitive regardless of the engine's own tokenizer.
var fold = cases.Fold()

// Query is the structured form of a raw search string.
//
// The exported fields are derived views over the parsed input. Required,
// OrGroups and Phrases preserve the order in which they appeared; Excluded
// terms must not match. A term never appears in both Required and Excluded
// for the same occurrence in the input.
type Query struct {
	// Required contains bare terms that must all match.
	Required []string

	// Excluded contains terms that must not match (written as -term).
	Excluded []string

	// OrGroups contains disjunctive alternatives; each group is satisfied
	// when any one member matches. A phrase member is stored as its tokens
	// joined by single spaces.
	OrGroups [][]string

	// Phrases contains quoted token sequences that must match contiguously
	// and in order.
	Phrases [][]string

	// segments preserves the original ordering and shape of the input so
	// translation can re-emit operators in place.
	segments []segment
}

// atom is a single matchable unit: a term or a phrase, possibly negated.
type atom struct {
	tokens  []string
	phrase  bool
	negated bool
}

// segment is one position in the query. More than one alternative means the
// atoms were joined with OR.
type segment struct {
	alts []atom
}

// lexeme is an atom or the OR operator, before grouping.
type lexeme struct {
	atom atom
	or   bool
}

// IsEmpty reports whether the query contains no matchable terms at all.
func (q Query) IsEmpty() bool {
	return len(q.segments) == 0
}

// Parse converts a raw, already sanitized search string into a Query.
//
// Parse never fails. Unbalanced quotes are stripped and their contents
// treated as individual required terms. An OR with a missing or unusable
// neighbour degrades to the literal word "or". Anything else that is not
// recognized as an operator is kept as literal term content.
func Parse(raw string) Query {
	lexemes := lex(raw)
	segments := group(lexemes)

	q := Query{segments: segments}
	for _, seg := range segments {
		if len(seg.alts) > 1 {
			members := make([]string, 0, len(seg.alts))
			for _, a := range seg.alts {
				members = append(members, strings.Join(a.tokens, " "))
			}
			q.OrGroups = append(q.OrGroups, members)
			continue
		}
		a := seg.alts[0]
		switch {
		case a.negated:
			q.Excluded = append(q.Excluded, a.tokens...)
		case a.phrase:
			q.Phrases = append(q.Phrases, a.tokens)
		default:
			q.Required = append(q.Required, a.tokens...)
		}
	}
	return q
}

// lex splits the raw string into atoms and OR operators.
func lex(raw string) []lexeme {
	var lexemes []lexeme
	rs := []rune(raw)
	i := 0
	pendingNeg := false

	for i < len(rs) {
		if unicode.IsSpace(rs[i]) {
			pendingNeg = false
			i++
			continue
		}

		// A dash directly before an opening quote negates the phrase.
		negated := pendingNeg
		pendingNeg = false
		if rs[i] == '-' && i+1 < len(rs) && rs[i+1] == '"' {
			negated = true
			i++
		}

		if rs[i] == '"' {
			if j := closingQuote(rs, i+1); j >= 0 {
				toks := foldFields(string(rs[i+1 : j]))
				if len(toks) > 0 {
					lexemes = append(lexemes, lexeme{atom: atom{tokens: toks, phrase: true, negated: negated}})
				}
				i = j + 1
				continue
			}
			// No closing quote: drop the quote character and keep lexing,
			// so the enclosed words become plain required terms.
			pendingNeg = negated
			i++
			continue
		}

		start := i
		for i < len(rs) && !unicode.IsSpace(rs[i]) {
			i++
		}
		tok := string(rs[start:i])

		if strings.EqualFold(tok, "or") && !negated {
			lexemes = append(lexemes, lexeme{or: true})
			continue
		}

		neg := negated
		if strings.HasPrefix(tok, "-") && len(tok) > 1 {
			neg = true
			tok = tok[1:]
		}
		folded := fold.String(tok)
		if folded == "" {
			continue
		}
		lexemes = append(lexemes, lexeme{atom: atom{tokens: []string{folded}, negated: neg}})
	}

	return lexemes
}

// closingQuote returns the index of the next double quote at or after start,
// or -1 if none remains.
func closingQuote(rs []rune, start int) int {
	for j := start; j < len(rs); j++ {
		if rs[j] == '"' {
			return j
		}
	}
	return -1
}

// foldFields splits text on whitespace and case-folds every token.
func foldFields(text string) []string {
	fields := strings.Fields(text)
	toks := make([]string, 0, len(fields))
	for _, f := range fields {
		if folded := fold.String(f); folded != "" {
			toks = append(toks, folded)
		}
	}
	return toks
}

// group merges atoms joined by OR into disjunctive segments.
//
// OR binds only between two immediately adjacent terms or phrases; it is not
// a global disjunction across the whole query. Negated atoms never join a
// group, and an OR without a usable neighbour on both sides degrades to the
// literal term "or".
func group(lexemes []lexeme) []segment {
	var segs []segment
	i := 0
	for i < len(lexemes) {
		if lexemes[i].or {
			segs = append(segs, segment{alts: []atom{{tokens: []string{"or"}}}})
			i++
			continue
		}

		seg := segment{alts: []atom{lexemes[i].atom}}
		for canExtend(lexemes, i, seg) {
			seg.alts = append(seg.alts, lexemes[i+2].atom)
			i += 2
		}
		segs = append(segs, seg)
		i++
	}
	return segs
}

// canExtend reports whether the atom two positions ahead can join the
// current OR-group.
func canExtend(lexemes []lexeme, i int, seg segment) bool {
	if i+2 >= len(lexemes) {
		return false
	}
	if !lexemes[i+1].or || lexemes[i+2].or {
		return false
	}
	if seg.alts[len(seg.alts)-1].negated || lexemes[i+2].atom.negated {
		return false
	}
	return true
}
