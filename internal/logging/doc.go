// Package logging builds the slog loggers used across the CLI.
//
// Two output formats are supported: a compact single-line console format for
// terminals and standard JSON for machine consumption. Helpers attach the
// component name and render run id consistently so every pipeline step logs
// with the same shape.
package logging
