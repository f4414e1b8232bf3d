// Package logging constructs slog loggers for the CLI and library packages.
//
// Two output formats are supported: a compact console format for interactive
// use and line-delimited JSON for machine consumption. NewFromConfig mirrors
// the configuration's [logging] section and tees output into the log
// directory alongside stdout.
package logging
