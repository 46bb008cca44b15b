package schedule

import (
	"context"
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"airguide/internal/config"
	"airguide/internal/content"
	"airguide/internal/logging"
	"airguide/internal/store"
)

// Discoverer expands the content pool from the external catalog.
// Implementations are I/O-bound and honor context cancellation.
type Discoverer interface {
	Discover(ctx context.Context, filters content.Filters, maxResults int, originChannel string) ([]content.Record, error)
	BuildPool(ctx context.Context, maxItems int) ([]content.Record, error)
}

// Engine owns the pool, channel definitions, schedule cache, and the
// usage and cooldown state. All mutable state is guarded by a single
// lock; schedule generation for different channels is serialized so
// later channels observe earlier reservations.
type Engine struct {
	mu sync.Mutex

	cfg    *config.Config
	logger *slog.Logger

	channels []Channel
	pool     []content.Record

	// cache key is "channelID:date". usage maps "date:hour" to the
	// catalog ids placed in that bucket; the value records the
	// generation date so ClearDate can undo exactly one day's marks.
	cache     map[string][]Program
	usage     map[string]map[int64]string
	cooldowns store.Cooldowns

	poolStore     store.PoolStore
	cooldownStore store.CooldownStore
	discoverer    Discoverer
}

// NewEngine loads channel templates, the persisted pool, and cooldown
// state, and returns a ready engine. A nil discoverer disables pool
// expansion.
func NewEngine(
	cfg *config.Config,
	logger *slog.Logger,
	poolStore store.PoolStore,
	cooldownStore store.CooldownStore,
	discoverer Discoverer,
) (*Engine, error) {
	log := logging.WithComponent(logger, "schedule-engine")

	channels, err := LoadTemplates(cfg.TemplatesPath(), logger)
	if err != nil {
		return nil, fmt.Errorf("load channel templates: %w", err)
	}

	pool, err := poolStore.Load()
	if err != nil {
		return nil, fmt.Errorf("load content pool: %w", err)
	}

	cooldowns, err := cooldownStore.Load()
	if err != nil {
		return nil, fmt.Errorf("load cooldowns: %w", err)
	}
	if cooldowns == nil {
		cooldowns = make(store.Cooldowns)
	}

	log.Info("engine ready",
		logging.Int("channels", len(channels)),
		logging.Int(logging.FieldPool, len(pool)))

	return &Engine{
		cfg:           cfg,
		logger:        log,
		channels:      channels,
		pool:          pool,
		cache:         make(map[string][]Program),
		usage:         make(map[string]map[int64]string),
		cooldowns:     cooldowns,
		poolStore:     poolStore,
		cooldownStore: cooldownStore,
		discoverer:    discoverer,
	}, nil
}

// Channels lists configured channels ordered by priority descending.
// Disabled channels are omitted unless includeDisabled is set.
func (e *Engine) Channels(includeDisabled bool) []Channel {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Channel, 0, len(e.channels))
	for _, ch := range e.channels {
		if ch.Enabled || includeDisabled {
			out = append(out, ch)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}

// Channel returns the channel with the given id.
func (e *Engine) Channel(id string) (Channel, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.channelLocked(id)
}

func (e *Engine) channelLocked(id string) (Channel, bool) {
	for _, ch := range e.channels {
		if ch.ID == id {
			return ch, true
		}
	}
	return Channel{}, false
}

// PoolSize returns the number of records in the pool.
func (e *Engine) PoolSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pool)
}

// Pool returns a copy of the current pool records.
func (e *Engine) Pool() []content.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]content.Record, len(e.pool))
	copy(out, e.pool)
	return out
}

// GenerateSchedule computes the full-day program list for a channel.
// Results are cached per (channel, date); a cached day is returned
// unchanged. An empty pool triggers a blocking build as a fallback.
func (e *Engine) GenerateSchedule(ctx context.Context, channelID string, day time.Time) ([]Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generateLocked(ctx, channelID, day)
}

func (e *Engine) generateLocked(ctx context.Context, channelID string, day time.Time) ([]Program, error) {
	channel, ok := e.channelLocked(channelID)
	if !ok {
		return nil, fmt.Errorf("unknown channel %q", channelID)
	}

	if len(e.pool) == 0 && e.discoverer != nil {
		if err := e.buildPoolLocked(ctx); err != nil {
			return nil, err
		}
	}

	dateStr := day.Format(store.DateLayout)
	key := cacheKey(channelID, dateStr)
	if cached, ok := e.cache[key]; ok {
		return cached, nil
	}

	var programs []Program
	for slotIndex, slot := range channel.Slots {
		seed := slotSeed(channelID, dateStr, slotIndex)
		slotStart, slotEnd := slot.Window(day)

		filter := slot.Filter
		filter.ChannelID = channelID
		eligible := e.filterPoolLocked(filter)
		if len(eligible) == 0 {
			e.logger.Warn("no eligible content for slot",
				logging.String(logging.FieldChannelID, channelID),
				logging.String(logging.FieldSlotLabel, slot.Label),
				logging.String(logging.FieldDate, dateStr))
			continue
		}

		shuffleRecords(eligible, seed)
		programs = append(programs, e.fillSlotLocked(channel.ID, slot, eligible, slotStart, slotEnd, dateStr)...)
	}

	sort.SliceStable(programs, func(i, j int) bool { return programs[i].Start.Before(programs[j].Start) })
	e.cache[key] = programs

	if err := e.cooldownStore.Save(e.cooldowns); err != nil {
		e.logger.Error("persist cooldowns", logging.Error(err))
	}
	return programs, nil
}

func (e *Engine) filterPoolLocked(filter content.Filters) []*content.Record {
	var eligible []*content.Record
	for i := range e.pool {
		if e.pool[i].Matches(filter) {
			eligible = append(eligible, &e.pool[i])
		}
	}
	return eligible
}

func (e *Engine) fillSlotLocked(
	channelID string,
	slot Slot,
	shuffled []*content.Record,
	slotStart, slotEnd time.Time,
	dateStr string,
) []Program {
	tolerance := time.Duration(e.cfg.Scheduling.OverflowToleranceMinutes) * time.Minute

	var programs []Program
	cursor := slotStart
	for _, rec := range shuffled {
		if !cursor.Before(slotEnd) {
			break
		}
		if rec.Kind == content.KindMovie && e.onCooldownLocked(channelID, rec.CatalogID, dateStr) {
			continue
		}
		bucket := usageKey(cursor)
		if _, used := e.usage[bucket][rec.CatalogID]; used {
			continue
		}

		runtime := rec.RuntimeMinutes
		if runtime <= 0 {
			if rec.Kind == content.KindSeries {
				runtime = e.cfg.Scheduling.DefaultEpisodeRuntime
			} else {
				runtime = e.cfg.Scheduling.DefaultMovieRuntime
			}
		}
		end := cursor.Add(time.Duration(runtime) * time.Minute)
		if end.After(slotEnd.Add(tolerance)) {
			continue
		}

		if e.usage[bucket] == nil {
			e.usage[bucket] = make(map[int64]string)
		}
		e.usage[bucket][rec.CatalogID] = dateStr
		e.cooldowns.Mark(channelID, rec.CatalogID, dateStr)

		programs = append(programs, e.buildProgram(rec, slot.Label, cursor, end, runtime))
		cursor = end
	}
	return programs
}

func (e *Engine) buildProgram(rec *content.Record, slotLabel string, start, end time.Time, runtime int) Program {
	program := Program{
		ID:             fmt.Sprintf("%d_%s", rec.CatalogID, start.Format(time.RFC3339)),
		CatalogID:      rec.CatalogID,
		Kind:           rec.Kind,
		Title:          rec.Title,
		OriginalTitle:  rec.OriginalTitle,
		Overview:       rec.Overview,
		RuntimeMinutes: runtime,
		Start:          start,
		End:            end,
		PosterPath:     rec.PosterPath,
		BackdropPath:   rec.BackdropPath,
		GenreIDs:       rec.GenreIDs,
		Year:           rec.Year,
		VoteAverage:    rec.VoteAverage,
		SlotLabel:      slotLabel,
	}
	if len(rec.Providers) > 0 {
		first := rec.Providers[0]
		program.ProviderName = first.ProviderName
		program.ProviderLogo = first.LogoPath
		program.DeepLink = DeepLink(first.ProviderName, rec.CatalogID)
	}
	return program
}

// Cooldown applies only when the last play is a distinct earlier date
// inside the window; same-date marks never block, so regenerating a
// cleared day reproduces the original schedule.
func (e *Engine) onCooldownLocked(channelID string, catalogID int64, dateStr string) bool {
	last := e.cooldowns.LastPlayed(channelID, catalogID)
	if last == "" {
		return false
	}
	lastDay, err := time.Parse(store.DateLayout, last)
	if err != nil {
		return false
	}
	day, err := time.Parse(store.DateLayout, dateStr)
	if err != nil {
		return false
	}
	diff := int(day.Sub(lastDay).Hours() / 24)
	return diff >= 1 && diff < e.cfg.Scheduling.CooldownDays
}

// NowPlaying returns the program airing on the channel at the given
// instant, or nil when the channel is off air. The previous day's
// schedule is consulted for programs crossing midnight.
func (e *Engine) NowPlaying(ctx context.Context, channelID string, at time.Time) (*Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, day := range []time.Time{at.AddDate(0, 0, -1), at} {
		programs, err := e.generateLocked(ctx, channelID, day)
		if err != nil {
			return nil, err
		}
		for i := range programs {
			if !programs[i].Start.After(at) && at.Before(programs[i].End) {
				p := programs[i]
				return &p, nil
			}
		}
	}
	return nil, nil
}

// ProgramsInRange returns the channel's programs overlapping
// [from, to), spanning as many schedule days as the range covers.
func (e *Engine) ProgramsInRange(ctx context.Context, channelID string, from, to time.Time) ([]Program, error) {
	if !to.After(from) {
		return nil, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var out []Program
	first := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	last := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		programs, err := e.generateLocked(ctx, channelID, day)
		if err != nil {
			return nil, err
		}
		for _, p := range programs {
			if p.End.After(from) && p.Start.Before(to) {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func cacheKey(channelID, dateStr string) string {
	return channelID + ":" + dateStr
}

func usageKey(t time.Time) string {
	return fmt.Sprintf("%s:%02d", t.Format(store.DateLayout), t.Hour())
}

// slotSeed hashes channel, date, and slot index into a stable 32-bit
// seed so shuffles reproduce across restarts and platforms.
func slotSeed(channelID, dateStr string, slotIndex int) uint32 {
	sum := md5.Sum([]byte(fmt.Sprintf("%s:%s:%d", channelID, dateStr, slotIndex)))
	return binary.BigEndian.Uint32(sum[:4])
}

func shuffleRecords(records []*content.Record, seed uint32) {
	rng := rand.New(rand.NewSource(int64(seed)))
	for i := len(records) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		records[i], records[j] = records[j], records[i]
	}
}
