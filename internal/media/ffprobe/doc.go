// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// The blink synthesizer needs the narration's total duration and the
// pipeline refuses inputs without an audio stream; both come from a single
// Inspect call here.
package ffprobe
