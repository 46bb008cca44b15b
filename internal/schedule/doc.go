// Package schedule owns the content pool, channel definitions, and the
// deterministic slot-filling engine that produces a per-channel,
// per-day program guide.
//
// Schedules are reproducible: the placement order for a slot derives
// from a stable hash of channel id, date, and slot index, so the same
// inputs always yield the same guide across process restarts. Cross
// channel hourly dedup and per-channel movie cooldowns are enforced
// during the fill walk.
package schedule
