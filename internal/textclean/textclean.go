// Package textclean normalizes LLM output before it is spoken or stored.
package textclean

import "strings"

// stripped everywhere, longest first so ** is not eaten as two lone *.
var markers = []string{"**", "__", "*", "_", "`", `"`, "“", "”"}

var quotePairs = [][2]string{{"'", "'"}, {"‘", "’"}}

// Clean strips markdown emphasis markers, backticks, and double quotes,
// unwraps wrapping single quotes, and trims whitespace. Apostrophes inside
// words are left alone. Idempotent.
func Clean(s string) string {
	for _, m := range markers {
		s = strings.ReplaceAll(s, m, "")
	}
	return unwrapSingleQuotes(strings.TrimSpace(s))
}

// unwrapSingleQuotes removes wrapping single-quote pairs to a fixpoint:
// stopping after one layer would leave doubly-wrapped input to lose its
// second layer on a later pass.
func unwrapSingleQuotes(s string) string {
	for {
		next := s
		for _, pair := range quotePairs {
			open, close := pair[0], pair[1]
			if len(next) >= len(open)+len(close) && strings.HasPrefix(next, open) && strings.HasSuffix(next, close) {
				next = strings.TrimSpace(next[len(open) : len(next)-len(close)])
				break
			}
		}
		if next == s {
			return s
		}
		s = next
	}
}
