package universe_test

import (
	"testing"

	"airguide/internal/universe"
)

func TestClassifyByCollection(t *testing.T) {
	labels := universe.Classify(universe.Signals{
		Title:        "A New Hope",
		CollectionID: 10,
	})
	if len(labels) != 1 || labels[0] != "Star Wars" {
		t.Fatalf("unexpected labels: %v", labels)
	}
}

func TestClassifyByKeywordSubstring(t *testing.T) {
	labels := universe.Classify(universe.Signals{
		Title:    "Some Documentary",
		Keywords: []string{"history of the jedi order"},
	})
	if len(labels) != 1 || labels[0] != "Star Wars" {
		t.Fatalf("expected keyword fragment to match, got %v", labels)
	}
}

func TestClassifyByCompany(t *testing.T) {
	labels := universe.Classify(universe.Signals{
		Title:      "Untitled Project",
		CompanyIDs: []int64{420},
	})
	if len(labels) != 1 || labels[0] != "Marvel Cinematic Universe" {
		t.Fatalf("expected Marvel Studios company match, got %v", labels)
	}
}

func TestClassifyTitleUsesWordBoundaries(t *testing.T) {
	labels := universe.Classify(universe.Signals{Title: "El Resplandor"})
	if len(labels) != 0 {
		t.Fatalf("Resplandor must not match Andor, got %v", labels)
	}

	labels = universe.Classify(universe.Signals{Title: "Andor"})
	if len(labels) != 1 || labels[0] != "Star Wars" {
		t.Fatalf("Andor should classify as Star Wars, got %v", labels)
	}
}

func TestClassifyChecksOriginalTitle(t *testing.T) {
	labels := universe.Classify(universe.Signals{
		Title:         "El Señor de los Anillos",
		OriginalTitle: "The Lord of the Rings",
	})
	if len(labels) != 1 || labels[0] != "Lord of the Rings" {
		t.Fatalf("original title should match, got %v", labels)
	}
}

func TestClassifyMultipleUniversesStableOrder(t *testing.T) {
	labels := universe.Classify(universe.Signals{
		Title:    "Crossover Special",
		Keywords: []string{"avengers", "james bond"},
	})
	if len(labels) != 2 {
		t.Fatalf("expected two universes, got %v", labels)
	}
	if labels[0] != "Marvel Cinematic Universe" || labels[1] != "James Bond" {
		t.Fatalf("labels out of rule order: %v", labels)
	}
}

func TestClassifyNoMatch(t *testing.T) {
	labels := universe.Classify(universe.Signals{
		Title:    "Cooking at Home",
		Keywords: []string{"food", "recipes"},
	})
	if len(labels) != 0 {
		t.Fatalf("expected no labels, got %v", labels)
	}
}

func TestTitlePatterns(t *testing.T) {
	patterns := universe.TitlePatterns("Star Trek")
	if len(patterns) == 0 || patterns[0] != "Star Trek" {
		t.Fatalf("unexpected patterns: %v", patterns)
	}
	if universe.TitlePatterns("No Such Universe") != nil {
		t.Fatal("unknown label should return nil")
	}
}

func TestLabelsAndKnown(t *testing.T) {
	labels := universe.Labels()
	if len(labels) != 13 {
		t.Fatalf("expected 13 universes, got %d", len(labels))
	}
	if labels[0] != "Star Wars" || labels[len(labels)-1] != "Jurassic Park" {
		t.Fatalf("unexpected label order: %v", labels)
	}
	if !universe.Known("Matrix") || universe.Known("Narnia") {
		t.Fatal("Known misclassified a label")
	}
}
