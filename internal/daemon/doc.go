// Package daemon runs the background guide service: it holds the
// single-instance lock, builds the content pool at startup, and
// refreshes it on a fixed interval.
package daemon
