package schedule

import (
	"context"
	"fmt"
	"strings"

	"airguide/internal/content"
	"airguide/internal/logging"
	"airguide/internal/store"
)

// BuildPool runs the broad seed discovery battery and merges the
// results into the pool, deduplicating by (catalog id, kind).
func (e *Engine) BuildPool(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buildPoolLocked(ctx)
}

func (e *Engine) buildPoolLocked(ctx context.Context) error {
	if e.discoverer == nil {
		return fmt.Errorf("no discoverer configured")
	}

	e.logger.Info("building content pool", logging.Int(logging.FieldPool, len(e.pool)))
	records, err := e.discoverer.BuildPool(ctx, e.cfg.Discovery.PoolTargetSize)
	if err != nil {
		return fmt.Errorf("build content pool: %w", err)
	}

	added := e.mergeLocked(records, "")
	e.logger.Info("content pool ready",
		logging.Int(logging.FieldPool, len(e.pool)),
		logging.Int(logging.FieldCount, added))
	if added > 0 {
		e.savePoolLocked()
	}
	return nil
}

// ExpandPool issues a targeted discovery per enabled channel slot and
// merges the results. Existing records only gain attribution; new
// records are appended. Per-slot failures are logged and skipped.
func (e *Engine) ExpandPool(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.expandPoolLocked(ctx)
}

func (e *Engine) expandPoolLocked(ctx context.Context) error {
	if e.discoverer == nil {
		return fmt.Errorf("no discoverer configured")
	}

	changed := 0
	for _, channel := range e.channels {
		if !channel.Enabled {
			continue
		}
		for _, slot := range channel.Slots {
			if err := ctx.Err(); err != nil {
				return err
			}
			records, err := e.discoverer.Discover(ctx, slot.Filter, e.cfg.Discovery.MaxResultsPerSlot, channel.ID)
			if err != nil {
				e.logger.Warn("slot discovery failed",
					logging.String(logging.FieldChannelID, channel.ID),
					logging.String(logging.FieldSlotLabel, slot.Label),
					logging.Error(err))
				continue
			}
			changed += e.mergeLocked(records, channel.ID)
		}
	}

	e.logger.Info("pool expansion complete",
		logging.Int(logging.FieldPool, len(e.pool)),
		logging.Int(logging.FieldCount, changed))
	if changed > 0 {
		e.savePoolLocked()
	}
	return nil
}

// mergeLocked folds records into the pool. It returns the number of
// additions plus attribution updates.
func (e *Engine) mergeLocked(records []content.Record, originChannel string) int {
	index := make(map[string]int, len(e.pool))
	for i := range e.pool {
		index[recordKey(&e.pool[i])] = i
	}

	changed := 0
	for _, rec := range records {
		if originChannel != "" {
			rec.Attribute(originChannel)
		}
		key := recordKey(&rec)
		if i, ok := index[key]; ok {
			if originChannel != "" && e.pool[i].Attribute(originChannel) {
				changed++
			}
			continue
		}
		e.pool = append(e.pool, rec)
		index[key] = len(e.pool) - 1
		changed++
	}
	return changed
}

func (e *Engine) savePoolLocked() {
	if err := e.poolStore.Save(e.pool); err != nil {
		e.logger.Error("persist content pool", logging.Error(err))
	}
}

func recordKey(r *content.Record) string {
	return fmt.Sprintf("%d:%s", r.CatalogID, r.Kind)
}

// Reload re-parses the channel template document and drops the
// schedule cache and usage state. The pool and cooldowns survive.
func (e *Engine) Reload() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	channels, err := LoadTemplates(e.cfg.TemplatesPath(), e.logger)
	if err != nil {
		return fmt.Errorf("reload channel templates: %w", err)
	}
	e.channels = channels
	e.cache = make(map[string][]Program)
	e.usage = make(map[string]map[int64]string)
	e.logger.Info("channels reloaded", logging.Int("channels", len(channels)))
	return nil
}

// ReloadAndDiscover reloads templates and re-runs the per-channel
// expansion pass so new slot criteria gain content immediately.
func (e *Engine) ReloadAndDiscover(ctx context.Context) error {
	if err := e.Reload(); err != nil {
		return err
	}
	return e.ExpandPool(ctx)
}

// ClearDate invalidates every channel's cached schedule for a date and
// removes the usage marks that date's generations created.
func (e *Engine) ClearDate(dateStr string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for key := range e.cache {
		if strings.HasSuffix(key, ":"+dateStr) {
			delete(e.cache, key)
		}
	}
	for bucket, ids := range e.usage {
		for id, genDate := range ids {
			if genDate == dateStr {
				delete(ids, id)
			}
		}
		if len(ids) == 0 {
			delete(e.usage, bucket)
		}
	}
}

// ClearCache drops every cached schedule and all usage state.
func (e *Engine) ClearCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = make(map[string][]Program)
	e.usage = make(map[string]map[int64]string)
}

// ResetCooldowns clears persisted cooldown state.
func (e *Engine) ResetCooldowns() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cooldowns = make(store.Cooldowns)
	if err := e.cooldownStore.Save(e.cooldowns); err != nil {
		return fmt.Errorf("reset cooldowns: %w", err)
	}
	return nil
}
