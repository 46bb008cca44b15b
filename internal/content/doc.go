// Package content defines the enriched pool record for movies and
// series and the slot eligibility matcher used during scheduling.
//
// Matching runs in three phases. Structural filters (kind, year range,
// rating floor, excluded keywords, people) always apply. Records
// already attributed to the requesting channel then bypass the
// thematic phase entirely. Otherwise every present thematic filter
// (universes, keywords, title terms, genres, countries, language)
// must pass.
package content
