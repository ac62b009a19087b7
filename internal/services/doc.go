// Package services defines shared utilities consumed by the render pipeline
// and the external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (aligner errors, empty timelines, missing mapping labels) consistently.
//
// Use these helpers when wiring new pipeline logic so error handling and
// observability stay uniform across the tool wrappers.
package services
