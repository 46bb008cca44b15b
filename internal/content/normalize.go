package content

import (
	"strings"
	"unicode"
)

// NormalizeText lowercases the input, replaces every non-alphanumeric
// rune with a space, and collapses runs of whitespace.
func NormalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// termVariants returns the normalized term plus Spanish/English
// episode and series spellings, so "Episode IV" finds "Episodio IV"
// in localized overviews.
func termVariants(term string) []string {
	base := NormalizeText(term)
	if base == "" {
		return nil
	}
	variants := []string{base}
	add := func(v string) {
		for _, existing := range variants {
			if existing == v {
				return
			}
		}
		variants = append(variants, v)
	}
	if strings.Contains(base, "episodio") {
		add(strings.ReplaceAll(base, "episodio", "episode"))
	} else if strings.Contains(base, "episode") {
		add(strings.ReplaceAll(base, "episode", "episodio"))
	}
	if strings.Contains(base, "series") {
		add(strings.ReplaceAll(base, "series", "serie"))
	} else if strings.Contains(base, "serie") {
		add(strings.ReplaceAll(base, "serie", "series"))
	}
	return variants
}
