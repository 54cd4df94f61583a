package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases a value and strips its diacritics, so "Álvaro Obregón"
// matches "alvaro obregon". Used for slug derivation and search matching.
func Fold(value string) string {
	folded, _, err := transform.String(stripDiacritics, value)
	if err != nil {
		folded = value
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// Slugify derives a URL-safe slug from a title: diacritics stripped,
// lowercased, any run of non-alphanumeric characters collapsed to a single
// hyphen. Returns "" for titles with no usable characters.
func Slugify(value string) string {
	folded := Fold(value)

	var b strings.Builder
	pendingHyphen := false
	for _, r := range folded {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isAlnum {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
