package schedule

import (
	"fmt"
	"time"

	"airguide/internal/content"
)

// ClockTime is a wall-clock time of day with minute resolution.
type ClockTime struct {
	Hour   int
	Minute int
}

// String renders the clock time as HH:MM.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Before reports whether c is strictly earlier in the day than other.
func (c ClockTime) Before(other ClockTime) bool {
	if c.Hour != other.Hour {
		return c.Hour < other.Hour
	}
	return c.Minute < other.Minute
}

// At anchors the clock time on a calendar day in UTC.
func (c ClockTime) At(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, time.UTC)
}

// Slot is one daily time window on a channel. End at or before Start
// means the window crosses midnight.
type Slot struct {
	Start  ClockTime
	End    ClockTime
	Label  string
	Filter content.Filters
}

// Window computes the absolute start and end of the slot on a day,
// extending past midnight when the clock range wraps.
func (s Slot) Window(day time.Time) (time.Time, time.Time) {
	start := s.Start.At(day)
	end := s.End.At(day)
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, end
}

// Channel is a themed guide channel with an ordered list of slots.
type Channel struct {
	ID          string
	Name        string
	Icon        string
	Description string
	Enabled     bool
	Priority    int
	Slots       []Slot
}

// Program is one scheduled airing of a pool record on a channel.
// IDs are unique within one generation run, not globally.
type Program struct {
	ID             string       `json:"id"`
	CatalogID      int64        `json:"tmdb_id"`
	Kind           content.Kind `json:"content_type"`
	Title          string       `json:"title"`
	OriginalTitle  string       `json:"original_title"`
	Overview       string       `json:"overview"`
	RuntimeMinutes int          `json:"runtime_minutes"`
	Start          time.Time    `json:"start_time"`
	End            time.Time    `json:"end_time"`
	PosterPath     string       `json:"poster_path,omitempty"`
	BackdropPath   string       `json:"backdrop_path,omitempty"`
	GenreIDs       []int        `json:"genres"`
	Year           int          `json:"release_year,omitempty"`
	VoteAverage    float64      `json:"vote_average"`
	SlotLabel      string       `json:"slot_label"`
	ProviderName   string       `json:"provider_name,omitempty"`
	ProviderLogo   string       `json:"provider_logo,omitempty"`
	DeepLink       string       `json:"deep_link,omitempty"`
}
