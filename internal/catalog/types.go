package catalog

// Media kinds as used on the TMDB wire.
const (
	KindMovie = "movie"
	KindTV    = "tv"
)

// Item represents a single search or discover result.
type Item struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	Name             string   `json:"name"`
	OriginalTitle    string   `json:"original_title"`
	OriginalName     string   `json:"original_name"`
	Overview         string   `json:"overview"`
	GenreIDs         []int    `json:"genre_ids"`
	ReleaseDate      string   `json:"release_date"`
	FirstAirDate     string   `json:"first_air_date"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count"`
	OriginCountry    []string `json:"origin_country"`
	OriginalLanguage string   `json:"original_language"`
	PosterPath       string   `json:"poster_path"`
	BackdropPath     string   `json:"backdrop_path"`
	Popularity       float64  `json:"popularity"`
}

// DisplayTitle returns the movie title or TV name, whichever is present.
func (i Item) DisplayTitle() string {
	if i.Title != "" {
		return i.Title
	}
	return i.Name
}

// OriginalDisplayTitle returns the original title across both kinds.
func (i Item) OriginalDisplayTitle() string {
	if i.OriginalTitle != "" {
		return i.OriginalTitle
	}
	return i.OriginalName
}

// FirstReleaseDate returns the release date (movies) or first air date (TV).
func (i Item) FirstReleaseDate() string {
	if i.ReleaseDate != "" {
		return i.ReleaseDate
	}
	return i.FirstAirDate
}

// Page models the TMDB paginated result envelope.
type Page struct {
	Page         int    `json:"page"`
	Results      []Item `json:"results"`
	TotalPages   int    `json:"total_pages"`
	TotalResults int    `json:"total_results"`
}

// CollectionRef identifies the collection a movie belongs to.
type CollectionRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CompanyRef identifies a production company.
type CompanyRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Details carries the subset of the TMDB detail payload used for enrichment.
type Details struct {
	ID                  int64         `json:"id"`
	Runtime             int           `json:"runtime"`
	EpisodeRunTime      []int         `json:"episode_run_time"`
	BelongsToCollection *CollectionRef `json:"belongs_to_collection"`
	ProductionCompanies []CompanyRef  `json:"production_companies"`
}

// RuntimeMinutes returns the runtime for the given kind, 0 when unknown.
func (d *Details) RuntimeMinutes(kind string) int {
	if d == nil {
		return 0
	}
	if kind == KindTV {
		if len(d.EpisodeRunTime) > 0 {
			return d.EpisodeRunTime[0]
		}
		return 0
	}
	return d.Runtime
}

// CompanyIDs returns the production company ids.
func (d *Details) CompanyIDs() []int64 {
	if d == nil {
		return nil
	}
	ids := make([]int64, 0, len(d.ProductionCompanies))
	for _, c := range d.ProductionCompanies {
		ids = append(ids, c.ID)
	}
	return ids
}

// CollectionID returns the owning collection id, 0 when none.
func (d *Details) CollectionID() int64 {
	if d == nil || d.BelongsToCollection == nil {
		return 0
	}
	return d.BelongsToCollection.ID
}

// Person identifies a crew member.
type Person struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Provider describes one streaming service offering for an item.
type Provider struct {
	ProviderID   int64  `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}

// Genre maps a TMDB genre id to its display name.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DiscoverQuery describes a filtered discovery request.
type DiscoverQuery struct {
	Kind           string
	GenreIDs       []int
	YearFrom       int
	YearTo         int
	Language       string
	Country        string
	VoteAverageMin float64
	People         []int64
	Page           int
}
