// Package store persists the content pool and per-channel cooldown
// state. The pool is a JSON document matching the external schema.
// Cooldowns can be backed by SQLite or by a JSON file for
// compatibility with existing deployments.
package store
