// Package textnorm canonicalizes transcript and reference text before
// error-rate comparison so that case and punctuation differences do not
// count as recognition errors.
package textnorm

import (
	"regexp"
	"strings"
)

// Keep word characters, whitespace and apostrophes (contractions like
// "don't" must survive normalization). Everything else is stripped.
// \p{L}\p{N} rather than \w, since \w matches ASCII only and accented or
// non-Latin letters are word characters, not punctuation.
var nonWordPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s']`)

// Normalize lowercases the text, removes punctuation except apostrophes,
// and collapses all whitespace runs to single spaces.
// It is a total function and idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = nonWordPattern.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}
