package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"airguide/internal/content"
	"airguide/internal/logging"
)

type templateDocument struct {
	Channels []channelTemplate `json:"channels"`
}

type channelTemplate struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Icon        string         `json:"icon"`
	Enabled     *bool          `json:"enabled"`
	Priority    int            `json:"priority"`
	Description string         `json:"description"`
	Slots       []slotTemplate `json:"slots"`
}

type slotTemplate struct {
	Start               string    `json:"start"`
	End                 string    `json:"end"`
	Label               string    `json:"label"`
	Genres              []int     `json:"genres"`
	Decade              []int     `json:"decade"`
	Keywords            []string  `json:"keywords"`
	ExcludeKeywords     []string  `json:"exclude_keywords"`
	Universes           []string  `json:"universes"`
	OriginalLanguage    string    `json:"original_language"`
	ProductionCountries string    `json:"production_countries"`
	VoteAverageMin      float64   `json:"vote_average_min"`
	WithPeople          []any     `json:"with_people"`
	TitleContains       []string  `json:"title_contains"`
	ContentType         string    `json:"content_type"`
}

// LoadTemplates parses the channel template document at path. A missing
// file yields an empty channel set. Malformed per-slot values degrade
// to defaults instead of failing the load; a malformed document fails.
func LoadTemplates(path string, logger *slog.Logger) ([]Channel, error) {
	log := logging.WithComponent(logger, "templates")

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("channel template file missing, starting empty", logging.String("path", path))
			return nil, nil
		}
		return nil, fmt.Errorf("read templates %s: %w", path, err)
	}

	var doc templateDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse templates %s: %w", path, err)
	}

	channels := make([]Channel, 0, len(doc.Channels))
	for _, ct := range doc.Channels {
		channel := Channel{
			ID:          ct.ID,
			Name:        ct.Name,
			Icon:        ct.Icon,
			Enabled:     ct.Enabled == nil || *ct.Enabled,
			Priority:    ct.Priority,
			Description: ct.Description,
		}
		for _, st := range ct.Slots {
			channel.Slots = append(channel.Slots, parseSlot(st, channel.ID, log))
		}
		channels = append(channels, channel)
	}
	return channels, nil
}

func parseSlot(st slotTemplate, channelID string, log *slog.Logger) Slot {
	start, ok := parseClock(st.Start)
	if !ok {
		log.Warn("invalid slot start, using 00:00",
			logging.String(logging.FieldChannelID, channelID),
			logging.String("start", st.Start))
		start = ClockTime{Hour: 0, Minute: 0}
	}
	end, ok := parseClock(st.End)
	if !ok {
		log.Warn("invalid slot end, using 04:00",
			logging.String(logging.FieldChannelID, channelID),
			logging.String("end", st.End))
		end = ClockTime{Hour: 4, Minute: 0}
	}

	filter := content.Filters{
		GenreIDs:        st.Genres,
		Keywords:        st.Keywords,
		ExcludeKeywords: st.ExcludeKeywords,
		Universes:       st.Universes,
		Language:        st.OriginalLanguage,
		VoteAverageMin:  st.VoteAverageMin,
		TitleTerms:      st.TitleContains,
		Kind:            parseKind(st.ContentType, channelID, log),
	}
	if len(st.Decade) == 2 {
		filter.YearFrom = st.Decade[0]
		filter.YearTo = st.Decade[1]
	}
	if country := strings.TrimSpace(st.ProductionCountries); country != "" {
		filter.Countries = []string{country}
	}
	filter.People = parsePeople(st.WithPeople)

	return Slot{Start: start, End: end, Label: st.Label, Filter: filter}
}

func parseKind(value, channelID string, log *slog.Logger) content.Kind {
	switch value {
	case "", string(content.KindMovie):
		return content.KindMovie
	case string(content.KindSeries):
		return content.KindSeries
	default:
		log.Warn("unknown content type, using movie",
			logging.String(logging.FieldChannelID, channelID),
			logging.String("content_type", value))
		return content.KindMovie
	}
}

// parsePeople accepts numeric ids and free-text name fragments in the
// same list, matching the external template schema.
func parsePeople(values []any) []content.PersonRef {
	var people []content.PersonRef
	for _, v := range values {
		switch entry := v.(type) {
		case float64:
			if id := int64(entry); id != 0 {
				people = append(people, content.PersonRef{ID: id})
			}
		case string:
			trimmed := strings.TrimSpace(entry)
			if trimmed == "" {
				continue
			}
			if id, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
				people = append(people, content.PersonRef{ID: id})
			} else {
				people = append(people, content.PersonRef{Name: trimmed})
			}
		}
	}
	return people
}

func parseClock(value string) (ClockTime, bool) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return ClockTime{}, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return ClockTime{}, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return ClockTime{}, false
	}
	return ClockTime{Hour: hour, Minute: minute}, true
}
