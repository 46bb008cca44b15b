package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Normalize lowercases and trims a language code and reduces BCP 47 tags
// to their base language ("es-MX" becomes "es"). Returns empty string
// for unrecognized input.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		if len(code) == 2 {
			return code
		}
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}

// Equal reports whether two language codes refer to the same base
// language after normalization. Empty codes never match.
func Equal(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	return na != "" && na == nb
}

// DisplayName returns the English display name for a language code.
// Returns "Unknown" for empty input and the uppercased code when the
// name cannot be resolved.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "Unknown"
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return strings.ToUpper(trimmed)
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return strings.ToUpper(trimmed)
	}
	return name
}

// NormalizeList deduplicates and normalizes a list of language codes,
// preserving first-seen order.
func NormalizeList(codes []string) []string {
	if len(codes) == 0 {
		return nil
	}
	normalized := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		n := Normalize(code)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		normalized = append(normalized, n)
	}
	return normalized
}
