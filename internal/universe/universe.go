package universe

import (
	"regexp"
	"strings"
)

// Signals carries the metadata a classification decision is based on.
// CollectionID is zero for content that belongs to no collection.
type Signals struct {
	Title         string
	OriginalTitle string
	Keywords      []string
	CollectionID  int64
	CompanyIDs    []int64
}

type rule struct {
	label         string
	collectionIDs []int64
	keywords      []string
	companyIDs    []int64
	titlePatterns []string
	titleRegexps  []*regexp.Regexp
}

// Rules are ordered so classification output is deterministic.
var rules = []rule{
	{
		label:         "Star Wars",
		collectionIDs: []int64{10},
		keywords:      []string{"star wars", "jedi", "sith", "skywalker", "mandalorian"},
		titlePatterns: []string{"Star Wars", "Mandalorian", "Andor", "Ahsoka", "Boba Fett", "Obi-Wan"},
	},
	{
		label:         "Star Trek",
		collectionIDs: []int64{151},
		keywords:      []string{"star trek", "starfleet", "vulcan", "klingon"},
		titlePatterns: []string{"Star Trek", "Strange New Worlds", "Lower Decks", "Picard", "Discovery"},
	},
	{
		label:         "Marvel Cinematic Universe",
		collectionIDs: []int64{86311, 131295, 131292, 618529},
		keywords:      []string{"marvel cinematic universe", "mcu", "avengers"},
		companyIDs:    []int64{420},
		titlePatterns: []string{"Avengers", "Iron Man", "Captain America", "Thor", "Guardians"},
	},
	{
		label:         "DC Extended Universe",
		keywords:      []string{"dc extended universe", "dceu"},
		companyIDs:    []int64{9993, 429},
		titlePatterns: []string{"Batman", "Superman", "Wonder Woman", "Justice League", "Aquaman"},
	},
	{
		label:         "James Bond",
		collectionIDs: []int64{645},
		keywords:      []string{"james bond", "007"},
		titlePatterns: []string{"James Bond", "007"},
	},
	{
		label:         "Rocky-verse",
		collectionIDs: []int64{1575},
		keywords:      []string{"rocky balboa"},
		titlePatterns: []string{"Rocky", "Creed"},
	},
	{
		label:         "Planet of the Apes",
		collectionIDs: []int64{1709, 173710},
		keywords:      []string{"planet of the apes"},
		titlePatterns: []string{"Planet of the Apes"},
	},
	{
		label:         "Matrix",
		collectionIDs: []int64{2344},
		keywords:      []string{"the matrix"},
		titlePatterns: []string{"Matrix"},
	},
	{
		label:         "Mission Impossible",
		collectionIDs: []int64{87359},
		keywords:      []string{"mission impossible"},
		titlePatterns: []string{"Mission: Impossible", "Mission Impossible"},
	},
	{
		label:         "Fast & Furious",
		collectionIDs: []int64{9485},
		keywords:      []string{"fast and furious"},
		titlePatterns: []string{"Fast & Furious", "Fast and Furious"},
	},
	{
		label:         "Harry Potter",
		collectionIDs: []int64{1241},
		keywords:      []string{"harry potter", "hogwarts"},
		titlePatterns: []string{"Harry Potter"},
	},
	{
		label:         "Lord of the Rings",
		collectionIDs: []int64{119},
		keywords:      []string{"lord of the rings", "middle earth"},
		titlePatterns: []string{"Lord of the Rings", "Hobbit"},
	},
	{
		label:         "Jurassic Park",
		collectionIDs: []int64{328},
		keywords:      []string{"jurassic park", "jurassic world"},
		titlePatterns: []string{"Jurassic"},
	},
}

func init() {
	for i := range rules {
		r := &rules[i]
		r.titleRegexps = make([]*regexp.Regexp, 0, len(r.titlePatterns))
		for _, pattern := range r.titlePatterns {
			// Word boundaries keep "Andor" from matching inside "Resplandor".
			re := regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(pattern)) + `\b`)
			r.titleRegexps = append(r.titleRegexps, re)
		}
	}
}

// Classify returns the universe labels the given content belongs to,
// in stable rule order. An empty slice means no universe matched.
func Classify(s Signals) []string {
	title := strings.ToLower(s.Title)
	originalTitle := strings.ToLower(s.OriginalTitle)
	keywords := make([]string, 0, len(s.Keywords))
	for _, kw := range s.Keywords {
		keywords = append(keywords, strings.ToLower(kw))
	}

	var labels []string
	for i := range rules {
		r := &rules[i]
		if r.matches(title, originalTitle, keywords, s.CollectionID, s.CompanyIDs) {
			labels = append(labels, r.label)
		}
	}
	return labels
}

func (r *rule) matches(title, originalTitle string, keywords []string, collectionID int64, companyIDs []int64) bool {
	if collectionID != 0 {
		for _, id := range r.collectionIDs {
			if id == collectionID {
				return true
			}
		}
	}
	for _, ruleKeyword := range r.keywords {
		for _, kw := range keywords {
			if strings.Contains(kw, ruleKeyword) {
				return true
			}
		}
	}
	for _, re := range r.titleRegexps {
		if re.MatchString(title) || re.MatchString(originalTitle) {
			return true
		}
	}
	for _, want := range r.companyIDs {
		for _, id := range companyIDs {
			if id == want {
				return true
			}
		}
	}
	return false
}

// Labels returns every known universe label in rule order.
func Labels() []string {
	labels := make([]string, len(rules))
	for i := range rules {
		labels[i] = rules[i].label
	}
	return labels
}

// TitlePatterns returns the title search patterns for a universe label,
// or nil when the label is unknown. Useful for seeding catalog searches.
func TitlePatterns(label string) []string {
	for i := range rules {
		if rules[i].label == label {
			patterns := make([]string, len(rules[i].titlePatterns))
			copy(patterns, rules[i].titlePatterns)
			return patterns
		}
	}
	return nil
}

// Known reports whether a label names a configured universe.
func Known(label string) bool {
	for i := range rules {
		if rules[i].label == label {
			return true
		}
	}
	return false
}
