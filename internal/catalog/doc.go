// Package catalog provides the TMDB client used for content discovery.
//
// The client covers text search, filtered discovery, detail and keyword
// fetches, credits, watch-provider lookup, and genre listing. Calls are
// throttled to a minimum interval, cached per process, and retried on
// HTTP 429 using the Retry-After header. Media kinds are the TMDB wire
// strings "movie" and "tv".
package catalog
