// Package rhubarb wraps the rhubarb lip-sync CLI, which derives timestamped
// mouth-shape labels from a narration track. Rhubarb only accepts WAV and
// OGG input; callers must transcode anything else before aligning.
package rhubarb
