// Package pipeline runs a complete render: probe the narration, align
// phonemes with rhubarb, build the mouth and blink timelines, resolve labels
// to images, and hand the layered composition to ffmpeg. One Run call is one
// video; there is no queue and no retry.
package pipeline
