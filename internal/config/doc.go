// Package config loads and validates airguide configuration.
//
// Configuration lives in a TOML file (default ~/.config/airguide/config.toml,
// with a project-local airguide.toml fallback). All path fields are expanded
// and normalized on load; unset values fall back to repository defaults so a
// missing file still produces a runnable configuration.
package config
