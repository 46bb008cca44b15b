package store

import "airguide/internal/content"

// DateLayout is the calendar-date format used in cooldown state.
const DateLayout = "2006-01-02"

// Cooldowns maps channel id to catalog id to the last calendar date
// the item played on that channel, formatted as YYYY-MM-DD.
type Cooldowns map[string]map[int64]string

// LastPlayed returns the recorded play date, or empty string when the
// item never played on the channel.
func (c Cooldowns) LastPlayed(channelID string, catalogID int64) string {
	if c == nil {
		return ""
	}
	return c[channelID][catalogID]
}

// Mark records that an item played on a channel on the given date.
func (c Cooldowns) Mark(channelID string, catalogID int64, date string) {
	channel, ok := c[channelID]
	if !ok {
		channel = make(map[int64]string)
		c[channelID] = channel
	}
	channel[catalogID] = date
}

// Clone returns a deep copy.
func (c Cooldowns) Clone() Cooldowns {
	out := make(Cooldowns, len(c))
	for channelID, items := range c {
		copied := make(map[int64]string, len(items))
		for id, date := range items {
			copied[id] = date
		}
		out[channelID] = copied
	}
	return out
}

// PoolStore persists the content pool.
type PoolStore interface {
	Load() ([]content.Record, error)
	Save(records []content.Record) error
}

// CooldownStore persists per-channel cooldown state.
type CooldownStore interface {
	Load() (Cooldowns, error)
	Save(cooldowns Cooldowns) error
	Close() error
}
