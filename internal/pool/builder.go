package pool

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"airguide/internal/catalog"
	"airguide/internal/config"
	"airguide/internal/content"
	"airguide/internal/logging"
	"airguide/internal/universe"
)

const (
	keywordResultCap  = 20
	patternResultCap  = 10
	patternsPerLabel  = 3
	seedQueryMaxItems = 100
)

// Catalog is the subset of the catalog client the builder consumes.
type Catalog interface {
	Search(ctx context.Context, kind, query string, page int) (*catalog.Page, error)
	Discover(ctx context.Context, q catalog.DiscoverQuery) (*catalog.Page, error)
	Details(ctx context.Context, kind string, id int64) (*catalog.Details, error)
	Keywords(ctx context.Context, kind string, id int64) ([]string, error)
	Director(ctx context.Context, id int64) (*catalog.Person, error)
	WatchProviders(ctx context.Context, kind string, id int64) ([]catalog.Provider, error)
}

// Builder turns catalog queries into enriched pool records.
type Builder struct {
	cfg     *config.Config
	catalog Catalog
	logger  *slog.Logger
}

// NewBuilder returns a builder using the given catalog client.
func NewBuilder(cfg *config.Config, logger *slog.Logger, cat Catalog) *Builder {
	return &Builder{
		cfg:     cfg,
		catalog: cat,
		logger:  logging.WithComponent(logger, "pool-builder"),
	}
}

// Discover runs the targeted discovery pipeline for one filter set.
// Query and item failures are logged and skipped; the call only fails
// on context cancellation. Records are attributed to originChannel
// when it is non-empty.
func (b *Builder) Discover(ctx context.Context, filters content.Filters, maxResults int, originChannel string) ([]content.Record, error) {
	if maxResults <= 0 {
		maxResults = b.cfg.Discovery.MaxResultsPerSlot
	}
	kind := string(filters.Kind)
	if kind == "" {
		kind = catalog.KindMovie
	}

	run := &discoveryRun{
		builder:    b,
		kind:       kind,
		maxResults: maxResults,
		seen:       make(map[int64]struct{}),
		logger: b.logger.With(
			logging.String(logging.FieldRunID, uuid.NewString()),
			logging.String(logging.FieldKind, kind)),
	}

	if err := run.searchByKeywords(ctx, filters.Keywords); err != nil {
		return nil, err
	}
	if err := run.searchByUniverses(ctx, filters.Universes); err != nil {
		return nil, err
	}
	if err := run.standardDiscovery(ctx, filters); err != nil {
		return nil, err
	}

	if originChannel != "" {
		for i := range run.results {
			run.results[i].Attribute(originChannel)
		}
	}
	run.logger.Info("discovery complete", logging.Int(logging.FieldCount, len(run.results)))
	return run.results, nil
}

// BuildPool runs the broad seed battery to assemble an initial pool of
// up to maxItems records across movies and series.
func (b *Builder) BuildPool(ctx context.Context, maxItems int) ([]content.Record, error) {
	if maxItems <= 0 {
		maxItems = b.cfg.Discovery.PoolTargetSize
	}

	seeds := []content.Filters{
		{Kind: content.KindMovie, Language: "es"},
		{Kind: content.KindMovie, Countries: []string{"MX"}},
		{Kind: content.KindMovie, GenreIDs: []int{18, 35}, Language: "es"},
		{Kind: content.KindMovie, GenreIDs: []int{10402}},
		{Kind: content.KindMovie, GenreIDs: []int{878}},
		{Kind: content.KindMovie, GenreIDs: []int{28}},
		{Kind: content.KindMovie, GenreIDs: []int{27}},
		{Kind: content.KindMovie, GenreIDs: []int{35}},
		{Kind: content.KindMovie, GenreIDs: []int{18}},
		{Kind: content.KindSeries, GenreIDs: []int{10765}},
		{Kind: content.KindSeries, GenreIDs: []int{35}},
		{Kind: content.KindSeries, GenreIDs: []int{18}},
	}

	var pool []content.Record
	seen := make(map[string]struct{})
	for _, seed := range seeds {
		if len(pool) >= maxItems {
			break
		}
		if err := ctx.Err(); err != nil {
			return pool, err
		}
		records, err := b.Discover(ctx, seed, seedQueryMaxItems, "")
		if err != nil {
			return pool, err
		}
		for _, rec := range records {
			if len(pool) >= maxItems {
				break
			}
			key := strconv.FormatInt(rec.CatalogID, 10) + ":" + string(rec.Kind)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			pool = append(pool, rec)
		}
	}

	b.logger.Info("seed pool built", logging.Int(logging.FieldPool, len(pool)))
	return pool, nil
}

type discoveryRun struct {
	builder    *Builder
	kind       string
	maxResults int
	seen       map[int64]struct{}
	results    []content.Record
	logger     *slog.Logger
}

func (r *discoveryRun) full() bool {
	return len(r.results) >= r.maxResults
}

func (r *discoveryRun) searchByKeywords(ctx context.Context, keywords []string) error {
	limit := r.builder.cfg.Discovery.KeywordSearchLimit
	if limit > len(keywords) {
		limit = len(keywords)
	}
	for _, keyword := range keywords[:limit] {
		if r.full() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		page, err := r.builder.catalog.Search(ctx, r.kind, keyword, 1)
		if err != nil {
			r.logger.Warn("keyword search failed",
				logging.String(logging.FieldQuery, keyword), logging.Error(err))
			continue
		}
		items := page.Results
		if len(items) > keywordResultCap {
			items = items[:keywordResultCap]
		}
		for _, item := range items {
			if r.full() {
				break
			}
			rec, ok := r.admit(ctx, item)
			if !ok {
				continue
			}
			if keywordAppears(keyword, rec) {
				r.keep(rec)
			}
		}
	}
	return nil
}

// keywordAppears requires the literal search term in the enriched
// record's title, overview, or keyword list. Text search returns loose
// matches; this keeps only items genuinely about the term.
func keywordAppears(keyword string, rec content.Record) bool {
	needle := strings.ToLower(keyword)
	if strings.Contains(strings.ToLower(rec.Title), needle) ||
		strings.Contains(strings.ToLower(rec.Overview), needle) {
		return true
	}
	for _, kw := range rec.Keywords {
		if strings.Contains(strings.ToLower(kw), needle) {
			return true
		}
	}
	return false
}

func (r *discoveryRun) searchByUniverses(ctx context.Context, labels []string) error {
	for _, label := range labels {
		if r.full() {
			return nil
		}
		patterns := universe.TitlePatterns(label)
		if len(patterns) > patternsPerLabel {
			patterns = patterns[:patternsPerLabel]
		}
		for _, pattern := range patterns {
			if r.full() {
				break
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			page, err := r.builder.catalog.Search(ctx, r.kind, pattern, 1)
			if err != nil {
				r.logger.Warn("universe search failed",
					logging.String(logging.FieldQuery, pattern), logging.Error(err))
				continue
			}
			items := page.Results
			if len(items) > patternResultCap {
				items = items[:patternResultCap]
			}
			for _, item := range items {
				if r.full() {
					break
				}
				rec, ok := r.admit(ctx, item)
				if !ok {
					continue
				}
				if containsLabel(rec.Universes, label) {
					r.keep(rec)
				}
			}
		}
	}
	return nil
}

func containsLabel(labels []string, want string) bool {
	for _, l := range labels {
		if l == want {
			return true
		}
	}
	return false
}

func (r *discoveryRun) standardDiscovery(ctx context.Context, filters content.Filters) error {
	query := catalog.DiscoverQuery{
		Kind:           r.kind,
		GenreIDs:       filters.GenreIDs,
		YearFrom:       filters.YearFrom,
		YearTo:         filters.YearTo,
		Language:       filters.Language,
		VoteAverageMin: filters.VoteAverageMin,
	}
	if len(filters.Countries) > 0 {
		query.Country = filters.Countries[0]
	}
	for _, person := range filters.People {
		if person.ID != 0 {
			query.People = append(query.People, person.ID)
		}
	}

	for pageNum := 1; pageNum <= r.builder.cfg.Discovery.PageLimit; pageNum++ {
		if r.full() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		query.Page = pageNum
		page, err := r.builder.catalog.Discover(ctx, query)
		if err != nil {
			r.logger.Warn("standard discovery failed",
				logging.Int("page", pageNum), logging.Error(err))
			return nil
		}
		if len(page.Results) == 0 {
			return nil
		}
		for _, item := range page.Results {
			if r.full() {
				break
			}
			if rec, ok := r.admit(ctx, item); ok {
				r.keep(rec)
			}
		}
	}
	return nil
}

// admit checks availability and enriches a raw item. It returns false
// for duplicates, unavailable items, and enrichment failures.
func (r *discoveryRun) admit(ctx context.Context, item catalog.Item) (content.Record, bool) {
	if _, ok := r.seen[item.ID]; ok {
		return content.Record{}, false
	}

	providers, err := r.builder.catalog.WatchProviders(ctx, r.kind, item.ID)
	if err != nil {
		r.logger.Warn("provider lookup failed",
			logging.Int64(logging.FieldCatalogID, item.ID), logging.Error(err))
		return content.Record{}, false
	}
	if len(providers) == 0 {
		return content.Record{}, false
	}

	return r.builder.enrich(ctx, item, r.kind, providers, r.logger), true
}

func (r *discoveryRun) keep(rec content.Record) {
	r.seen[rec.CatalogID] = struct{}{}
	r.results = append(r.results, rec)
}

// enrich fetches details, keywords, and credits for an item and builds
// the pool record. Lookup failures degrade to partial metadata.
func (b *Builder) enrich(ctx context.Context, item catalog.Item, kind string, providers []catalog.Provider, log *slog.Logger) content.Record {
	details, err := b.catalog.Details(ctx, kind, item.ID)
	if err != nil {
		log.Warn("detail fetch failed",
			logging.Int64(logging.FieldCatalogID, item.ID), logging.Error(err))
		details = nil
	}
	keywords, err := b.catalog.Keywords(ctx, kind, item.ID)
	if err != nil {
		keywords = nil
	}

	var directorID int64
	var directorName string
	if kind == catalog.KindMovie {
		if director, err := b.catalog.Director(ctx, item.ID); err == nil && director != nil {
			directorID = director.ID
			directorName = director.Name
		}
	}

	labels := universe.Classify(universe.Signals{
		Title:         item.DisplayTitle(),
		OriginalTitle: item.OriginalDisplayTitle(),
		Keywords:      keywords,
		CollectionID:  details.CollectionID(),
		CompanyIDs:    details.CompanyIDs(),
	})

	year := 0
	releaseDate := item.FirstReleaseDate()
	if len(releaseDate) >= 4 {
		if parsed, err := strconv.Atoi(releaseDate[:4]); err == nil {
			year = parsed
		}
	}
	decade := 0
	if year > 0 {
		decade = (year / 10) * 10
	}

	providerInfos := make([]content.ProviderInfo, 0, len(providers))
	for _, p := range providers {
		providerInfos = append(providerInfos, content.ProviderInfo{
			ProviderID:   p.ProviderID,
			ProviderName: p.ProviderName,
			LogoPath:     p.LogoPath,
		})
	}

	return content.Record{
		CatalogID:        item.ID,
		Title:            item.DisplayTitle(),
		OriginalTitle:    item.OriginalDisplayTitle(),
		Kind:             content.Kind(kind),
		Overview:         item.Overview,
		GenreIDs:         item.GenreIDs,
		Year:             year,
		Decade:           decade,
		VoteAverage:      item.VoteAverage,
		VoteCount:        item.VoteCount,
		IsPremium:        item.VoteAverage >= content.PremiumRatingFloor,
		Keywords:         keywords,
		Universes:        labels,
		DirectorID:       directorID,
		DirectorName:     directorName,
		OriginCountries:  item.OriginCountry,
		OriginalLanguage: item.OriginalLanguage,
		RuntimeMinutes:   details.RuntimeMinutes(kind),
		ReleaseDate:      releaseDate,
		Providers:        providerInfos,
		PosterPath:       item.PosterPath,
		BackdropPath:     item.BackdropPath,
	}
}
