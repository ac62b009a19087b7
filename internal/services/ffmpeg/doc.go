// Package ffmpeg wraps the ffmpeg CLI for the two jobs the pipeline needs:
// transcoding narration audio into a rhubarb-compatible WAV, and compositing
// the timed image chunks into the final video (sequential concat, optional
// background and blink overlays, audio mux).
package ffmpeg
