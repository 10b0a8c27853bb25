// Package textmatch provides the string-matching primitives behind patient
// and prescription search: case-insensitive substring checks, order-
// insensitive token matching, safe regex construction from user input, and a
// normalized edit-distance score.
package textmatch

import (
	"regexp"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Fold lower-cases and trims a value for comparison.
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ContainsFold reports whether s contains substr, case-insensitively.
func ContainsFold(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}

// TokensContainedFold reports whether every whitespace-separated token of
// query appears somewhere in s, case-insensitively. This makes "first last"
// queries match names stored in any token order.
func TokensContainedFold(s, query string) bool {
	folded := Fold(s)
	tokens := strings.Fields(Fold(query))
	if len(tokens) == 0 {
		return false
	}
	for _, tok := range tokens {
		if !strings.Contains(folded, tok) {
			return false
		}
	}
	return true
}

// EscapeQuery escapes regex metacharacters in user-supplied search text so
// it can be embedded in a pattern without breaking it.
func EscapeQuery(query string) string {
	return regexp.QuoteMeta(query)
}

// DigitRun extracts the digits of a query, used to match phone numbers
// regardless of formatting. Returns "" when the query holds no digits.
func DigitRun(query string) string {
	var b strings.Builder
	for _, r := range query {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Score returns a normalized edit-distance score in [0,1] between query and
// candidate, where 0 is an exact match. The candidate is scored both as a
// whole and token by token, keeping the best, so a query of "gupta" scores
// well against "Rakesh Gupta".
func Score(query, candidate string) float64 {
	q := Fold(query)
	c := Fold(candidate)
	if q == "" || c == "" {
		return 1
	}

	best := normalizedDistance(q, c)
	for _, tok := range strings.Fields(c) {
		if d := normalizedDistance(q, tok); d < best {
			best = d
		}
	}
	return best
}

func normalizedDistance(a, b string) float64 {
	dist := fuzzy.LevenshteinDistance(a, b)
	max := len([]rune(a))
	if l := len([]rune(b)); l > max {
		max = l
	}
	if max == 0 {
		return 0
	}
	return float64(dist) / float64(max)
}
