package schedule_test

import (
	"path/filepath"
	"testing"

	"airguide/internal/content"
	"airguide/internal/schedule"
	"airguide/internal/testsupport"
)

func TestLoadTemplatesMissingFileIsEmpty(t *testing.T) {
	channels, err := schedule.LoadTemplates(filepath.Join(t.TempDir(), "none.json"), testsupport.NewLogger(t))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(channels) != 0 {
		t.Fatalf("expected no channels, got %d", len(channels))
	}
}

func TestLoadTemplatesMalformedDocumentFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channel_templates.json")
	testsupport.WriteFile(t, path, `{"channels": [`)
	if _, err := schedule.LoadTemplates(path, testsupport.NewLogger(t)); err == nil {
		t.Fatal("expected error for malformed document")
	}
}

func TestLoadTemplatesParsesChannelsAndSlots(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channel_templates.json")
	testsupport.WriteFile(t, path, `{
		"channels": [{
			"id": "scifi",
			"name": "Sci-Fi Nights",
			"icon": "🛸",
			"enabled": true,
			"priority": 80,
			"slots": [{
				"start": "20:00",
				"end": "23:30",
				"label": "Prime Time",
				"genres": [878],
				"decade": [1980, 1989],
				"keywords": ["space"],
				"exclude_keywords": ["documentary"],
				"universes": ["Star Wars"],
				"original_language": "en",
				"production_countries": "US",
				"vote_average_min": 7.0,
				"with_people": [1032, "spielberg"],
				"title_contains": ["episode"],
				"content_type": "movie"
			}]
		}]
	}`)

	channels, err := schedule.LoadTemplates(path, testsupport.NewLogger(t))
	if err != nil {
		t.Fatalf("LoadTemplates failed: %v", err)
	}
	if len(channels) != 1 {
		t.Fatalf("expected 1 channel, got %d", len(channels))
	}
	ch := channels[0]
	if ch.ID != "scifi" || !ch.Enabled || ch.Priority != 80 {
		t.Fatalf("channel mangled: %+v", ch)
	}
	if len(ch.Slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(ch.Slots))
	}
	slot := ch.Slots[0]
	if slot.Start.String() != "20:00" || slot.End.String() != "23:30" || slot.Label != "Prime Time" {
		t.Fatalf("slot timing mangled: %+v", slot)
	}
	f := slot.Filter
	if f.Kind != content.KindMovie || f.YearFrom != 1980 || f.YearTo != 1989 {
		t.Fatalf("structural filters mangled: %+v", f)
	}
	if len(f.People) != 2 || f.People[0].ID != 1032 || f.People[1].Name != "spielberg" {
		t.Fatalf("people filter mangled: %+v", f.People)
	}
	if len(f.Countries) != 1 || f.Countries[0] != "US" {
		t.Fatalf("country filter mangled: %+v", f.Countries)
	}
}

func TestLoadTemplatesSlotFallbacks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channel_templates.json")
	testsupport.WriteFile(t, path, `{
		"channels": [{
			"id": "broken",
			"name": "Broken Slots",
			"slots": [{
				"start": "not-a-time",
				"end": "99:99",
				"label": "Oops",
				"content_type": "podcast"
			}]
		}]
	}`)

	channels, err := schedule.LoadTemplates(path, testsupport.NewLogger(t))
	if err != nil {
		t.Fatalf("LoadTemplates failed: %v", err)
	}
	slot := channels[0].Slots[0]
	if slot.Start.String() != "00:00" {
		t.Fatalf("bad start should fall back to 00:00, got %s", slot.Start)
	}
	if slot.End.String() != "04:00" {
		t.Fatalf("bad end should fall back to 04:00, got %s", slot.End)
	}
	if slot.Filter.Kind != content.KindMovie {
		t.Fatalf("unknown content type should fall back to movie, got %q", slot.Filter.Kind)
	}
}

func TestLoadTemplatesEnabledDefaultsTrue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channel_templates.json")
	testsupport.WriteFile(t, path, `{
		"channels": [
			{"id": "a", "name": "A"},
			{"id": "b", "name": "B", "enabled": false}
		]
	}`)
	channels, err := schedule.LoadTemplates(path, testsupport.NewLogger(t))
	if err != nil {
		t.Fatalf("LoadTemplates failed: %v", err)
	}
	if !channels[0].Enabled {
		t.Fatal("omitted enabled flag should default to true")
	}
	if channels[1].Enabled {
		t.Fatal("explicit enabled=false lost")
	}
}
