package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"airguide/internal/content"
	"airguide/internal/store"
)

func TestJSONPoolStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content_pool.json")
	poolStore := store.NewJSONPoolStore(path)

	loaded, err := poolStore.Load()
	if err != nil {
		t.Fatalf("Load on missing file failed: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected empty pool, got %d records", len(loaded))
	}

	records := []content.Record{
		{
			CatalogID:      11,
			Title:          "A New Hope",
			Kind:           content.KindMovie,
			GenreIDs:       []int{12, 878},
			Year:           1977,
			Universes:      []string{"Star Wars"},
			OriginChannels: []string{"scifi"},
			Providers:      []content.ProviderInfo{{ProviderID: 337, ProviderName: "Disney Plus"}},
		},
		{CatalogID: 1399, Title: "Game of Thrones", Kind: content.KindSeries},
	}
	if err := poolStore.Save(records); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err = poolStore.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 records, got %d", len(loaded))
	}
	if loaded[0].CatalogID != 11 || loaded[0].Universes[0] != "Star Wars" {
		t.Fatalf("first record mangled: %+v", loaded[0])
	}
	if loaded[0].Providers[0].ProviderID != 337 {
		t.Fatalf("provider lost: %+v", loaded[0].Providers)
	}
	if loaded[1].Kind != content.KindSeries {
		t.Fatalf("kind lost: %+v", loaded[1])
	}
}

func TestJSONPoolStoreRejectsMalformedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content_pool.json")
	if err := writeFile(t, path, `{"not":"an array"}`); err != nil {
		t.Fatal(err)
	}
	if _, err := store.NewJSONPoolStore(path).Load(); err == nil {
		t.Fatal("expected parse error for malformed pool")
	}
}

func TestSQLiteCooldownStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cooldowns.db")
	cooldownStore, err := store.OpenSQLiteCooldownStore(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer func() { _ = cooldownStore.Close() }()

	cooldowns := make(store.Cooldowns)
	cooldowns.Mark("scifi", 11, "2026-08-20")
	cooldowns.Mark("scifi", 42, "2026-08-21")
	cooldowns.Mark("classics", 11, "2026-08-19")
	if err := cooldownStore.Save(cooldowns); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := cooldownStore.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.LastPlayed("scifi", 11) != "2026-08-20" {
		t.Fatalf("unexpected state: %+v", loaded)
	}
	if loaded.LastPlayed("classics", 11) != "2026-08-19" {
		t.Fatalf("unexpected state: %+v", loaded)
	}
	if loaded.LastPlayed("classics", 42) != "" {
		t.Fatal("expected empty date for unseen pair")
	}
}

func TestSQLiteCooldownStoreReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cooldowns.db")
	first, err := store.OpenSQLiteCooldownStore(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	cooldowns := make(store.Cooldowns)
	cooldowns.Mark("scifi", 7, "2026-08-25")
	if err := first.Save(cooldowns); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second, err := store.OpenSQLiteCooldownStore(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer func() { _ = second.Close() }()
	loaded, err := second.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.LastPlayed("scifi", 7) != "2026-08-25" {
		t.Fatalf("state lost across reopen: %+v", loaded)
	}
}

func TestJSONCooldownStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cooldowns.json")
	cooldownStore := store.NewJSONCooldownStore(path)

	loaded, err := cooldownStore.Load()
	if err != nil {
		t.Fatalf("Load on missing file failed: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected empty cooldowns, got %+v", loaded)
	}

	cooldowns := make(store.Cooldowns)
	cooldowns.Mark("movies80s", 603, "2026-08-26")
	if err := cooldownStore.Save(cooldowns); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err = cooldownStore.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.LastPlayed("movies80s", 603) != "2026-08-26" {
		t.Fatalf("round trip lost state: %+v", loaded)
	}
}

func TestCooldownsClone(t *testing.T) {
	original := make(store.Cooldowns)
	original.Mark("a", 1, "2026-01-01")
	cloned := original.Clone()
	cloned.Mark("a", 1, "2026-02-02")
	if original.LastPlayed("a", 1) != "2026-01-01" {
		t.Fatal("clone mutated the original")
	}
}

func writeFile(t *testing.T, path, body string) error {
	t.Helper()
	return os.WriteFile(path, []byte(body), 0o644)
}
