package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"airguide/internal/catalog"
)

func newClient(t *testing.T, srv *httptest.Server, opts ...catalog.Option) *catalog.Client {
	t.Helper()
	opts = append([]catalog.Option{
		catalog.WithHTTPClient(srv.Client()),
		catalog.WithRequestInterval(time.Millisecond),
	}, opts...)
	client, err := catalog.New("test-key", srv.URL, "es-MX", "MX", opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return client
}

func TestSearchBuildsQuery(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("query")
		if r.URL.Query().Get("api_key") != "test-key" {
			t.Errorf("missing api key")
		}
		if r.URL.Query().Get("language") != "es-MX" {
			t.Errorf("missing language, got %q", r.URL.Query().Get("language"))
		}
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":11,"title":"Star Wars"}],"total_pages":1}`))
	}))
	defer srv.Close()

	page, err := newClient(t, srv).Search(context.Background(), catalog.KindMovie, "star wars", 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if gotPath != "/search/movie" || gotQuery != "star wars" {
		t.Fatalf("unexpected request %s query=%q", gotPath, gotQuery)
	}
	if len(page.Results) != 1 || page.Results[0].ID != 11 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestSearchRejectsUnknownKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer srv.Close()

	if _, err := newClient(t, srv).Search(context.Background(), "book", "dune", 1); err == nil {
		t.Fatal("expected error for unsupported kind")
	}
}

func TestDiscoverParameterMapping(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = map[string]string{}
		for k := range r.URL.Query() {
			got[k] = r.URL.Query().Get(k)
		}
		if r.URL.Path != "/discover/tv" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"page":2,"results":[]}`))
	}))
	defer srv.Close()

	client := newClient(t, srv, catalog.WithProviders([]int64{8, 337}))
	_, err := client.Discover(context.Background(), catalog.DiscoverQuery{
		Kind:           catalog.KindTV,
		GenreIDs:       []int{18, 35},
		YearFrom:       1980,
		YearTo:         1989,
		Language:       "es",
		Country:        "MX",
		VoteAverageMin: 7.5,
		People:         []int64{1032},
		Page:           2,
	})
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	expect := map[string]string{
		"with_genres":                   "18,35",
		"first_air_date.gte":            "1980-01-01",
		"first_air_date.lte":            "1989-12-31",
		"with_original_language":        "es",
		"with_origin_country":           "MX",
		"vote_average.gte":              "7.5",
		"with_people":                   "1032",
		"with_watch_providers":          "8|337",
		"with_watch_monetization_types": "flatrate|free|ads",
		"watch_region":                  "MX",
		"sort_by":                       "popularity.desc",
		"page":                          "2",
	}
	for key, want := range expect {
		if got[key] != want {
			t.Errorf("param %s = %q, want %q", key, got[key], want)
		}
	}
}

func TestWatchProvidersFiltersAndDedupes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":{"MX":{
			"flatrate":[{"provider_id":8,"provider_name":"Netflix","logo_path":"/n.png"}],
			"ads":[{"provider_id":8,"provider_name":"Netflix","logo_path":"/n.png"},
			       {"provider_id":999,"provider_name":"Unsubscribed"}],
			"free":[{"provider_id":300,"provider_name":"Pluto TV"}]
		}}}`))
	}))
	defer srv.Close()

	client := newClient(t, srv, catalog.WithProviders([]int64{8, 300}))
	providers, err := client.WatchProviders(context.Background(), catalog.KindMovie, 42)
	if err != nil {
		t.Fatalf("WatchProviders failed: %v", err)
	}
	if len(providers) != 2 {
		t.Fatalf("expected 2 providers after filter+dedup, got %+v", providers)
	}
	if providers[0].ProviderName != "Netflix" || providers[1].ProviderName != "Pluto TV" {
		t.Fatalf("unexpected provider order: %+v", providers)
	}
}

func TestWatchProvidersMissingRegion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":{"US":{"flatrate":[{"provider_id":8,"provider_name":"Netflix"}]}}}`))
	}))
	defer srv.Close()

	providers, err := newClient(t, srv).WatchProviders(context.Background(), catalog.KindMovie, 42)
	if err != nil {
		t.Fatalf("WatchProviders failed: %v", err)
	}
	if len(providers) != 0 {
		t.Fatalf("expected no providers outside region, got %+v", providers)
	}
}

func TestKeywordsHandlesBothEnvelopes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/movie/1/keywords":
			_, _ = w.Write([]byte(`{"keywords":[{"id":1,"name":"space opera"}]}`))
		case "/tv/2/keywords":
			_, _ = w.Write([]byte(`{"results":[{"id":2,"name":"sitcom"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := newClient(t, srv)
	movieKeywords, err := client.Keywords(context.Background(), catalog.KindMovie, 1)
	if err != nil {
		t.Fatalf("movie Keywords failed: %v", err)
	}
	if len(movieKeywords) != 1 || movieKeywords[0] != "space opera" {
		t.Fatalf("unexpected movie keywords: %v", movieKeywords)
	}
	tvKeywords, err := client.Keywords(context.Background(), catalog.KindTV, 2)
	if err != nil {
		t.Fatalf("tv Keywords failed: %v", err)
	}
	if len(tvKeywords) != 1 || tvKeywords[0] != "sitcom" {
		t.Fatalf("unexpected tv keywords: %v", tvKeywords)
	}
}

func TestDirectorPicksDirectorJob(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"crew":[
			{"id":5,"name":"Editor Person","job":"Editor"},
			{"id":7,"name":"Famous Director","job":"Director"}
		]}`))
	}))
	defer srv.Close()

	person, err := newClient(t, srv).Director(context.Background(), 9)
	if err != nil {
		t.Fatalf("Director failed: %v", err)
	}
	if person == nil || person.ID != 7 || person.Name != "Famous Director" {
		t.Fatalf("unexpected director: %+v", person)
	}
}

func TestRateLimitedRequestRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"genres":[{"id":28,"name":"Action"}]}`))
	}))
	defer srv.Close()

	genres, err := newClient(t, srv).Genres(context.Background(), catalog.KindMovie)
	if err != nil {
		t.Fatalf("Genres failed: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected retry after 429, got %d calls", calls.Load())
	}
	if len(genres) != 1 || genres[0].Name != "Action" {
		t.Fatalf("unexpected genres: %+v", genres)
	}
}

func TestResponsesAreCached(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":3,"name":"Cached Show"}]}`))
	}))
	defer srv.Close()

	client := newClient(t, srv)
	for i := 0; i < 3; i++ {
		if _, err := client.Search(context.Background(), catalog.KindTV, "cached", 1); err != nil {
			t.Fatalf("Search failed: %v", err)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 upstream call, got %d", calls.Load())
	}
}
