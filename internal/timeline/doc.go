// Package timeline builds the ordered (label, duration) sequences that drive
// image playback: the phoneme timeline derived from aligner output and the
// randomized eye-blink timeline covering the narration length.
package timeline
