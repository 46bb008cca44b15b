// Package universe classifies catalog entries into fictional franchise
// universes using collection membership, keyword hints, title patterns,
// and production companies.
package universe
