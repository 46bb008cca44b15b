// Command airguide is the CLI for the program guide service: it
// renders guides and channel listings, manages the content pool, and
// runs the daemon in the foreground.
package main
