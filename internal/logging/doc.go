// Package logging configures structured logging for airguide.
//
// Loggers are plain *slog.Logger values built by New.
// Output is either a human-oriented console format (timestamp, level,
// component prefix, key=value attributes) or line-delimited JSON. Components
// attach a "component" attribute via WithComponent; the console handler
// promotes it into the message prefix.
package logging
