// Package slugify converts arbitrary strings into URI-friendly slugs for
// page URIs and path templates.
package slugify

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// String lowercases the input, folds accented letters to their ASCII base
// form, maps whitespace to underscores and drops everything else that is not
// ASCII alphanumeric.
func String(original string) string {
	folded, _, err := transform.String(stripMarks, original)
	if err != nil {
		folded = original
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, c := range folded {
		switch {
		case unicode.IsSpace(c):
			b.WriteByte('_')
		case c < 128 && (unicode.IsLetter(c) || unicode.IsDigit(c)):
			b.WriteRune(unicode.ToLower(c))
		}
	}
	return b.String()
}
