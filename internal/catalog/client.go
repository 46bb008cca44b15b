package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const maxRetryAttempts = 3

// Client provides access to the TMDB API.
type Client struct {
	apiKey      string
	baseURL     string
	language    string
	region      string
	providerIDs []int64
	httpClient  *http.Client
	minInterval time.Duration

	mu          sync.Mutex
	lastRequest time.Time
	cache       map[string][]byte
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRequestInterval sets the minimum spacing between outbound calls.
func WithRequestInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.minInterval = interval
		}
	}
}

// WithProviders restricts watch-provider and discovery results to the given
// subscribed provider ids.
func WithProviders(ids []int64) Option {
	return func(c *Client) {
		c.providerIDs = append([]int64{}, ids...)
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL, language, region string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	client := &Client{
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		language:    strings.TrimSpace(language),
		region:      strings.TrimSpace(region),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		minInterval: 250 * time.Millisecond,
		cache:       make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Region returns the configured watch region.
func (c *Client) Region() string { return c.region }

// AllowedProviderIDs returns the configured subscription provider ids.
func (c *Client) AllowedProviderIDs() []int64 {
	return append([]int64{}, c.providerIDs...)
}

// Search performs a text search for the given kind.
func (c *Client) Search(ctx context.Context, kind, query string, page int) (*Page, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := url.Values{}
	params.Set("query", query)
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}
	var payload Page
	if err := c.get(ctx, "/search/"+kind, params, &payload); err != nil {
		return nil, fmt.Errorf("search %s %q: %w", kind, query, err)
	}
	return &payload, nil
}

// Discover performs a filtered discovery query restricted to the configured
// providers and monetization types.
func (c *Client) Discover(ctx context.Context, q DiscoverQuery) (*Page, error) {
	if err := validKind(q.Kind); err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("sort_by", "popularity.desc")
	params.Set("include_adult", "false")
	if c.region != "" {
		params.Set("watch_region", c.region)
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if len(q.GenreIDs) > 0 {
		params.Set("with_genres", joinInts(q.GenreIDs, ","))
	}
	dateField := "primary_release_date"
	if q.Kind == KindTV {
		dateField = "first_air_date"
	}
	if q.YearFrom > 0 {
		params.Set(dateField+".gte", fmt.Sprintf("%04d-01-01", q.YearFrom))
	}
	if q.YearTo > 0 {
		params.Set(dateField+".lte", fmt.Sprintf("%04d-12-31", q.YearTo))
	}
	if len(q.People) > 0 {
		params.Set("with_people", joinInt64s(q.People, ","))
	}
	if q.Language != "" {
		params.Set("with_original_language", q.Language)
	}
	if q.Country != "" {
		params.Set("with_origin_country", q.Country)
	}
	if q.VoteAverageMin > 0 {
		params.Set("vote_average.gte", strconv.FormatFloat(q.VoteAverageMin, 'f', -1, 64))
	}
	if len(c.providerIDs) > 0 {
		params.Set("with_watch_providers", joinInt64s(c.providerIDs, "|"))
		params.Set("with_watch_monetization_types", "flatrate|free|ads")
	}

	var payload Page
	if err := c.get(ctx, "/discover/"+q.Kind, params, &payload); err != nil {
		return nil, fmt.Errorf("discover %s: %w", q.Kind, err)
	}
	return &payload, nil
}

// Details fetches the detail payload for one item.
func (c *Client) Details(ctx context.Context, kind string, id int64) (*Details, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, errors.New("item id must be positive")
	}
	var payload Details
	if err := c.get(ctx, fmt.Sprintf("/%s/%d", kind, id), url.Values{}, &payload); err != nil {
		return nil, fmt.Errorf("%s details %d: %w", kind, id, err)
	}
	return &payload, nil
}

// Keywords fetches the keyword names attached to an item. The movie and TV
// endpoints wrap the list in different envelope fields.
func (c *Client) Keywords(ctx context.Context, kind string, id int64) ([]string, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, errors.New("item id must be positive")
	}
	var payload struct {
		Keywords []struct {
			Name string `json:"name"`
		} `json:"keywords"`
		Results []struct {
			Name string `json:"name"`
		} `json:"results"`
	}
	if err := c.get(ctx, fmt.Sprintf("/%s/%d/keywords", kind, id), url.Values{}, &payload); err != nil {
		return nil, fmt.Errorf("%s keywords %d: %w", kind, id, err)
	}
	names := make([]string, 0, len(payload.Keywords)+len(payload.Results))
	for _, kw := range payload.Keywords {
		names = append(names, kw.Name)
	}
	for _, kw := range payload.Results {
		names = append(names, kw.Name)
	}
	return names, nil
}

// Director returns the credited director of a movie, or nil when none is listed.
func (c *Client) Director(ctx context.Context, movieID int64) (*Person, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	var payload struct {
		Crew []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
			Job  string `json:"job"`
		} `json:"crew"`
	}
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/credits", movieID), url.Values{}, &payload); err != nil {
		return nil, fmt.Errorf("movie credits %d: %w", movieID, err)
	}
	for _, member := range payload.Crew {
		if member.Job == "Director" {
			return &Person{ID: member.ID, Name: member.Name}, nil
		}
	}
	return nil, nil
}

// WatchProviders returns the subscribed providers carrying an item in the
// configured region, across the flatrate, ads, and free categories.
func (c *Client) WatchProviders(ctx context.Context, kind string, id int64) ([]Provider, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, errors.New("item id must be positive")
	}
	var payload struct {
		Results map[string]struct {
			Flatrate []Provider `json:"flatrate"`
			Ads      []Provider `json:"ads"`
			Free     []Provider `json:"free"`
		} `json:"results"`
	}
	if err := c.get(ctx, fmt.Sprintf("/%s/%d/watch/providers", kind, id), url.Values{}, &payload); err != nil {
		return nil, fmt.Errorf("%s watch providers %d: %w", kind, id, err)
	}

	regional, ok := payload.Results[c.region]
	if !ok {
		return nil, nil
	}
	allowed := make(map[int64]struct{}, len(c.providerIDs))
	for _, pid := range c.providerIDs {
		allowed[pid] = struct{}{}
	}

	var providers []Provider
	seen := make(map[int64]struct{})
	for _, category := range [][]Provider{regional.Flatrate, regional.Ads, regional.Free} {
		for _, p := range category {
			if p.ProviderID <= 0 {
				continue
			}
			if len(allowed) > 0 {
				if _, ok := allowed[p.ProviderID]; !ok {
					continue
				}
			}
			if _, ok := seen[p.ProviderID]; ok {
				continue
			}
			seen[p.ProviderID] = struct{}{}
			providers = append(providers, p)
		}
	}
	return providers, nil
}

// Genres returns the genre id to name mapping for the given kind.
func (c *Client) Genres(ctx context.Context, kind string) ([]Genre, error) {
	if err := validKind(kind); err != nil {
		return nil, err
	}
	var payload struct {
		Genres []Genre `json:"genres"`
	}
	if err := c.get(ctx, "/genre/"+kind+"/list", url.Values{}, &payload); err != nil {
		return nil, fmt.Errorf("genre list %s: %w", kind, err)
	}
	return payload.Genres, nil
}

// get executes a throttled, cached GET against the API, retrying on 429.
func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	cacheKey := path + "?" + encodeStable(params)

	c.mu.Lock()
	if body, ok := c.cache[cacheKey]; ok {
		c.mu.Unlock()
		return json.Unmarshal(body, v)
	}
	c.mu.Unlock()

	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	var body []byte
	for attempt := 1; ; attempt++ {
		if err := c.throttle(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("execute request: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			if attempt >= maxRetryAttempts {
				return fmt.Errorf("tmdb rate limited after %d attempts", attempt)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryAfter):
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			return fmt.Errorf("tmdb returned %d for %s", resp.StatusCode, path)
		}

		body, err = io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}
		break
	}

	c.mu.Lock()
	c.cache[cacheKey] = body
	c.mu.Unlock()

	return json.Unmarshal(body, v)
}

// throttle enforces the minimum spacing between outbound requests.
func (c *Client) throttle(ctx context.Context) error {
	c.mu.Lock()
	wait := c.minInterval - time.Since(c.lastRequest)
	if wait > 0 {
		c.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		c.mu.Lock()
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()
	return nil
}

func parseRetryAfter(header string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || seconds < 0 {
		return 2 * time.Second
	}
	return time.Duration(seconds) * time.Second
}

func validKind(kind string) error {
	switch kind {
	case KindMovie, KindTV:
		return nil
	default:
		return fmt.Errorf("unsupported media kind %q", kind)
	}
}

func encodeStable(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strings.Join(params[k], ","))
	}
	return b.String()
}

func joinInts(values []int, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, sep)
}

func joinInt64s(values []int64, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(parts, sep)
}
