package content

import (
	"strings"

	"airguide/internal/language"
)

// PersonRef names a person filter entry, either by numeric catalog id
// or by a free-text name fragment. Exactly one of the fields is set.
type PersonRef struct {
	ID   int64
	Name string
}

// Filters is the typed eligibility filter set attached to a slot.
// A zero-value field imposes no constraint.
type Filters struct {
	ChannelID string

	Kind            Kind
	YearFrom        int
	YearTo          int
	VoteAverageMin  float64
	ExcludeKeywords []string
	People          []PersonRef

	Universes  []string
	Keywords   []string
	TitleTerms []string
	GenreIDs   []int
	Countries  []string
	Language   string
}

// Empty reports whether no eligibility constraint is present.
// ChannelID is attribution context, not a constraint.
func (f *Filters) Empty() bool {
	return f.Kind == "" &&
		f.YearFrom == 0 && f.YearTo == 0 &&
		f.VoteAverageMin == 0 &&
		len(f.ExcludeKeywords) == 0 &&
		len(f.People) == 0 &&
		len(f.Universes) == 0 &&
		len(f.Keywords) == 0 &&
		len(f.TitleTerms) == 0 &&
		len(f.GenreIDs) == 0 &&
		len(f.Countries) == 0 &&
		f.Language == ""
}

// Matches reports whether the record satisfies every filter present in
// the set. Structural filters always apply; records attributed to the
// filter's channel skip the thematic phase.
func (r *Record) Matches(f Filters) bool {
	if !r.matchesStructural(f) {
		return false
	}
	if f.ChannelID != "" && r.AttributedTo(f.ChannelID) {
		return true
	}
	return r.matchesThematic(f)
}

func (r *Record) matchesStructural(f Filters) bool {
	if f.Kind != "" && r.Kind != f.Kind {
		return false
	}
	if f.YearFrom != 0 || f.YearTo != 0 {
		if r.Year == 0 || r.Year < f.YearFrom || r.Year > f.YearTo {
			return false
		}
	}
	if f.VoteAverageMin > 0 && r.VoteAverage < f.VoteAverageMin {
		return false
	}
	if len(f.ExcludeKeywords) > 0 && r.hasExcludedKeyword(f.ExcludeKeywords) {
		return false
	}
	if len(f.People) > 0 && !r.matchesPeople(f.People) {
		return false
	}
	return true
}

// Excluded keywords use exact membership, not substring: a slot that
// bans "war" must not reject an item keyworded "star wars".
func (r *Record) hasExcludedKeyword(excluded []string) bool {
	for _, ex := range excluded {
		ex = strings.ToLower(strings.TrimSpace(ex))
		if ex == "" {
			continue
		}
		for _, kw := range r.Keywords {
			if strings.ToLower(strings.TrimSpace(kw)) == ex {
				return true
			}
		}
	}
	return false
}

func (r *Record) matchesPeople(people []PersonRef) bool {
	directorName := strings.ToLower(r.DirectorName)
	for _, p := range people {
		if p.ID != 0 && p.ID == r.DirectorID {
			return true
		}
		if p.Name != "" && directorName != "" {
			if strings.Contains(directorName, strings.ToLower(strings.TrimSpace(p.Name))) {
				return true
			}
		}
	}
	return false
}

func (r *Record) matchesThematic(f Filters) bool {
	if len(f.Universes) > 0 && !r.matchesUniverses(f.Universes) {
		return false
	}
	if len(f.Keywords) > 0 && !anyBidirectionalSubstring(f.Keywords, r.Keywords) {
		return false
	}
	if len(f.TitleTerms) > 0 && !r.matchesTitleTerms(f.TitleTerms) {
		return false
	}
	if len(f.GenreIDs) > 0 && !intersectsInts(f.GenreIDs, r.GenreIDs) {
		return false
	}
	if len(f.Countries) > 0 && !intersectsFold(f.Countries, r.OriginCountries) {
		return false
	}
	if f.Language != "" && !matchesLanguage(f.Language, r.OriginalLanguage) {
		return false
	}
	return true
}

// matchesLanguage compares base languages so "spa" and "es-MX" both
// match a slot filtered to "es". Unparseable codes fall back to exact
// case-insensitive comparison.
func matchesLanguage(want, have string) bool {
	if language.Equal(want, have) {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(want), strings.TrimSpace(have))
}

func (r *Record) matchesUniverses(required []string) bool {
	for _, want := range required {
		for _, have := range r.Universes {
			if strings.EqualFold(want, have) {
				return true
			}
		}
	}
	// Fuzzy fallback bridges near-miss labels like "Batman" vs
	// "The Batman".
	for _, want := range required {
		w := strings.ToLower(strings.TrimSpace(want))
		if w == "" {
			continue
		}
		for _, have := range r.Universes {
			h := strings.ToLower(strings.TrimSpace(have))
			if h == "" {
				continue
			}
			if strings.Contains(h, w) || strings.Contains(w, h) {
				return true
			}
		}
	}
	return false
}

func (r *Record) matchesTitleTerms(terms []string) bool {
	text := NormalizeText(r.Title + " " + r.Overview)
	for _, term := range terms {
		for _, variant := range termVariants(term) {
			if variant != "" && strings.Contains(text, variant) {
				return true
			}
		}
	}
	return false
}

func anyBidirectionalSubstring(required, have []string) bool {
	for _, req := range required {
		rq := strings.ToLower(strings.TrimSpace(req))
		if rq == "" {
			continue
		}
		for _, kw := range have {
			k := strings.ToLower(strings.TrimSpace(kw))
			if k == "" {
				continue
			}
			if strings.Contains(k, rq) || strings.Contains(rq, k) {
				return true
			}
		}
	}
	return false
}

func intersectsInts(a, b []int) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func intersectsFold(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if strings.EqualFold(strings.TrimSpace(x), strings.TrimSpace(y)) {
				return true
			}
		}
	}
	return false
}
