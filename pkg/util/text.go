package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var titleCaser = cases.Title(language.BrazilianPortuguese)

// RemoveDiacritics strips combining marks: "Açaí" becomes "Acai".
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Slugify produces a lowercase, diacritic-free, hyphen-separated key.
// An ampersand is spelled out as "e".
func Slugify(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "&", " e ")
	s = strings.ToLower(RemoveDiacritics(s))
	var b strings.Builder
	lastHyphen := true
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Humanize turns a snake_case tag into title-cased words.
func Humanize(tag string) string {
	words := strings.Fields(strings.ReplaceAll(tag, "_", " "))
	return titleCaser.String(strings.Join(words, " "))
}

// ContainsFold is a case-insensitive substring check.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
