// Package language normalizes ISO language codes as they appear in TMDB
// payloads and renders display names for guide output.
package language
