package content

// Kind identifies the media kind of a pool record using the catalog
// wire strings.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "tv"
)

// PremiumRatingFloor marks the rating at which a record counts as
// premium content.
const PremiumRatingFloor = 7.5

// ProviderInfo describes one streaming service an item is available on.
type ProviderInfo struct {
	ProviderID   int64  `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path,omitempty"`
}

// Record is one enriched catalog item in the content pool. The pair
// (CatalogID, Kind) is the dedup identity. OriginChannels lists the
// channels whose discovery passes surfaced this item; it is the only
// field mutated after creation.
type Record struct {
	CatalogID        int64          `json:"tmdb_id"`
	Title            string         `json:"title"`
	OriginalTitle    string         `json:"original_title"`
	Kind             Kind           `json:"media_type"`
	Overview         string         `json:"overview"`
	GenreIDs         []int          `json:"genres"`
	Year             int            `json:"year,omitempty"`
	Decade           int            `json:"decade,omitempty"`
	VoteAverage      float64        `json:"vote_average"`
	VoteCount        int            `json:"vote_count"`
	IsPremium        bool           `json:"is_premium"`
	Keywords         []string       `json:"keywords"`
	Universes        []string       `json:"universes"`
	OriginChannels   []string       `json:"origin_channels"`
	DirectorID       int64          `json:"director_id,omitempty"`
	DirectorName     string         `json:"director_name,omitempty"`
	OriginCountries  []string       `json:"origin_countries"`
	OriginalLanguage string         `json:"original_language,omitempty"`
	RuntimeMinutes   int            `json:"runtime,omitempty"`
	ReleaseDate      string         `json:"release_date,omitempty"`
	Providers        []ProviderInfo `json:"providers"`
	PosterPath       string         `json:"poster_path,omitempty"`
	BackdropPath     string         `json:"backdrop_path,omitempty"`
}

// AttributedTo reports whether the given channel's discovery previously
// surfaced this record.
func (r *Record) AttributedTo(channelID string) bool {
	for _, id := range r.OriginChannels {
		if id == channelID {
			return true
		}
	}
	return false
}

// Attribute appends channelID to the origin-channel list if absent and
// reports whether the list changed.
func (r *Record) Attribute(channelID string) bool {
	if channelID == "" || r.AttributedTo(channelID) {
		return false
	}
	r.OriginChannels = append(r.OriginChannels, channelID)
	return true
}
