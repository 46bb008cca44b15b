// Package pool discovers catalog content and enriches it into pool
// records. Discovery runs an ordered pipeline per filter set: keyword
// text search, universe title-pattern search, then broad paginated
// discovery, stopping once enough results accumulate. Items without
// any allowed streaming provider are dropped before enrichment work.
package pool
