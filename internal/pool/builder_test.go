package pool_test

import (
	"context"
	"errors"
	"testing"

	"airguide/internal/catalog"
	"airguide/internal/content"
	"airguide/internal/pool"
	"airguide/internal/testsupport"
)

type fakeCatalog struct {
	searchPages   map[string]catalog.Page
	discoverPages map[int]catalog.Page
	details       map[int64]*catalog.Details
	keywords      map[int64][]string
	directors     map[int64]*catalog.Person
	providers     map[int64][]catalog.Provider

	searchErr error
	searches  []string
}

func (f *fakeCatalog) Search(_ context.Context, _ string, query string, _ int) (*catalog.Page, error) {
	f.searches = append(f.searches, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	page := f.searchPages[query]
	return &page, nil
}

func (f *fakeCatalog) Discover(_ context.Context, q catalog.DiscoverQuery) (*catalog.Page, error) {
	page := f.discoverPages[q.Page]
	return &page, nil
}

func (f *fakeCatalog) Details(_ context.Context, _ string, id int64) (*catalog.Details, error) {
	return f.details[id], nil
}

func (f *fakeCatalog) Keywords(_ context.Context, _ string, id int64) ([]string, error) {
	return f.keywords[id], nil
}

func (f *fakeCatalog) Director(_ context.Context, id int64) (*catalog.Person, error) {
	return f.directors[id], nil
}

func (f *fakeCatalog) WatchProviders(_ context.Context, _ string, id int64) ([]catalog.Provider, error) {
	return f.providers[id], nil
}

func available(ids ...int64) map[int64][]catalog.Provider {
	out := make(map[int64][]catalog.Provider, len(ids))
	for _, id := range ids {
		out[id] = []catalog.Provider{{ProviderID: 8, ProviderName: "Netflix"}}
	}
	return out
}

func newBuilder(t *testing.T, cat pool.Catalog) *pool.Builder {
	t.Helper()
	return pool.NewBuilder(testsupport.NewConfig(t), testsupport.NewLogger(t), cat)
}

func TestDiscoverKeywordSearchValidatesLiteralMatch(t *testing.T) {
	cat := &fakeCatalog{
		searchPages: map[string]catalog.Page{
			"heist": {Results: []catalog.Item{
				{ID: 1, Title: "The Great Heist", Overview: "A daring robbery."},
				{ID: 2, Title: "Unrelated Drama", Overview: "Nothing in common."},
			}},
		},
		providers: available(1, 2),
	}

	records, err := newBuilder(t, cat).Discover(context.Background(),
		content.Filters{Kind: content.KindMovie, Keywords: []string{"heist"}}, 10, "")
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(records) != 1 || records[0].CatalogID != 1 {
		t.Fatalf("expected only the literal match, got %+v", records)
	}
}

func TestDiscoverSkipsUnavailableItems(t *testing.T) {
	cat := &fakeCatalog{
		searchPages: map[string]catalog.Page{
			"heist": {Results: []catalog.Item{{ID: 1, Title: "Heist Movie"}}},
		},
		providers: map[int64][]catalog.Provider{},
	}

	records, err := newBuilder(t, cat).Discover(context.Background(),
		content.Filters{Kind: content.KindMovie, Keywords: []string{"heist"}}, 10, "")
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("items without providers must be dropped, got %+v", records)
	}
}

func TestDiscoverUniverseStageKeepsClassifiedOnly(t *testing.T) {
	cat := &fakeCatalog{
		searchPages: map[string]catalog.Page{
			"Star Wars":   {Results: []catalog.Item{{ID: 11, Title: "Star Wars"}}},
			"Mandalorian": {Results: []catalog.Item{{ID: 12, Title: "Mando Fan Film Documentary Club"}}},
			"Andor":       {},
		},
		providers: available(11, 12),
	}

	records, err := newBuilder(t, cat).Discover(context.Background(),
		content.Filters{Kind: content.KindMovie, Universes: []string{"Star Wars"}}, 10, "")
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(records) != 1 || records[0].CatalogID != 11 {
		t.Fatalf("only items classified into the universe should be kept, got %+v", records)
	}
	if len(records[0].Universes) == 0 || records[0].Universes[0] != "Star Wars" {
		t.Fatalf("classification missing: %+v", records[0])
	}
}

func TestDiscoverStandardPipelineEnriches(t *testing.T) {
	cat := &fakeCatalog{
		discoverPages: map[int]catalog.Page{
			1: {Results: []catalog.Item{{
				ID: 21, Title: "Enriched", OriginalTitle: "Enriquecida",
				Overview: "Drama.", GenreIDs: []int{18},
				ReleaseDate: "1987-05-01", VoteAverage: 8.1, VoteCount: 500,
				OriginCountry: []string{"MX"}, OriginalLanguage: "es",
			}}},
		},
		details:   map[int64]*catalog.Details{21: {ID: 21, Runtime: 104}},
		keywords:  map[int64][]string{21: {"family", "small town"}},
		directors: map[int64]*catalog.Person{21: {ID: 9, Name: "Famous Director"}},
		providers: available(21),
	}

	records, err := newBuilder(t, cat).Discover(context.Background(),
		content.Filters{Kind: content.KindMovie, GenreIDs: []int{18}}, 10, "drama-channel")
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Year != 1987 || rec.Decade != 1980 {
		t.Fatalf("year/decade wrong: %+v", rec)
	}
	if !rec.IsPremium {
		t.Fatal("8.1 rating should mark premium")
	}
	if rec.RuntimeMinutes != 104 {
		t.Fatalf("runtime lost: %d", rec.RuntimeMinutes)
	}
	if rec.DirectorID != 9 || rec.DirectorName != "Famous Director" {
		t.Fatalf("director lost: %+v", rec)
	}
	if !rec.AttributedTo("drama-channel") {
		t.Fatalf("origin attribution missing: %+v", rec.OriginChannels)
	}
	if len(rec.Providers) != 1 || rec.Providers[0].ProviderName != "Netflix" {
		t.Fatalf("providers lost: %+v", rec.Providers)
	}
}

func TestDiscoverDeduplicatesAcrossStages(t *testing.T) {
	item := catalog.Item{ID: 31, Title: "Star Wars heist special", Overview: "heist in a galaxy"}
	cat := &fakeCatalog{
		searchPages: map[string]catalog.Page{
			"heist":       {Results: []catalog.Item{item}},
			"Star Wars":   {Results: []catalog.Item{item}},
			"Mandalorian": {},
			"Andor":       {},
		},
		providers: available(31),
	}

	records, err := newBuilder(t, cat).Discover(context.Background(),
		content.Filters{
			Kind:      content.KindMovie,
			Keywords:  []string{"heist"},
			Universes: []string{"Star Wars"},
		}, 10, "")
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected item deduped across stages, got %d records", len(records))
	}
}

func TestDiscoverSurvivesSearchErrors(t *testing.T) {
	cat := &fakeCatalog{
		searchErr: errors.New("upstream down"),
		discoverPages: map[int]catalog.Page{
			1: {Results: []catalog.Item{{ID: 41, Title: "Fallback"}}},
		},
		providers: available(41),
	}

	records, err := newBuilder(t, cat).Discover(context.Background(),
		content.Filters{Kind: content.KindMovie, Keywords: []string{"boom"}}, 10, "")
	if err != nil {
		t.Fatalf("Discover must tolerate per-query failures: %v", err)
	}
	if len(records) != 1 || records[0].CatalogID != 41 {
		t.Fatalf("standard discovery should still contribute, got %+v", records)
	}
}

func TestDiscoverHonorsMaxResults(t *testing.T) {
	items := make([]catalog.Item, 10)
	providerMap := make(map[int64][]catalog.Provider)
	for i := range items {
		id := int64(100 + i)
		items[i] = catalog.Item{ID: id, Title: "Movie"}
		providerMap[id] = []catalog.Provider{{ProviderID: 8, ProviderName: "Netflix"}}
	}
	cat := &fakeCatalog{
		discoverPages: map[int]catalog.Page{1: {Results: items}},
		providers:     providerMap,
	}

	records, err := newBuilder(t, cat).Discover(context.Background(),
		content.Filters{Kind: content.KindMovie}, 4, "")
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected cap at 4 results, got %d", len(records))
	}
}

func TestBuildPoolDeduplicatesAcrossSeeds(t *testing.T) {
	shared := catalog.Item{ID: 51, Title: "Everywhere", OriginalLanguage: "es"}
	cat := &fakeCatalog{
		discoverPages: map[int]catalog.Page{1: {Results: []catalog.Item{shared}}},
		providers:     available(51),
	}

	records, err := newBuilder(t, cat).BuildPool(context.Background(), 100)
	if err != nil {
		t.Fatalf("BuildPool failed: %v", err)
	}
	// The same discover page answers every seed query; movie and
	// series entries stay distinct while repeats within a kind fold.
	if len(records) != 2 {
		t.Fatalf("expected one movie and one series record, got %d", len(records))
	}
	kinds := map[content.Kind]bool{}
	for _, rec := range records {
		kinds[rec.Kind] = true
	}
	if !kinds[content.KindMovie] || !kinds[content.KindSeries] {
		t.Fatalf("expected both kinds, got %+v", records)
	}
}

func TestBuildPoolRespectsCap(t *testing.T) {
	items := make([]catalog.Item, 5)
	providerMap := make(map[int64][]catalog.Provider)
	for i := range items {
		id := int64(200 + i)
		items[i] = catalog.Item{ID: id, Title: "Seeded"}
		providerMap[id] = []catalog.Provider{{ProviderID: 8, ProviderName: "Netflix"}}
	}
	cat := &fakeCatalog{
		discoverPages: map[int]catalog.Page{1: {Results: items}},
		providers:     providerMap,
	}

	records, err := newBuilder(t, cat).BuildPool(context.Background(), 3)
	if err != nil {
		t.Fatalf("BuildPool failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected pool capped at 3, got %d", len(records))
	}
}
