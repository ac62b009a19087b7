// Package config loads, normalizes, and validates lipsync configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files from ~/.config/lipsync/config.toml or a
// project-local lipsync.toml. The Config type centralizes every knob the CLI
// needs: external tool binaries, blink cadence, output encoding, logging, and
// the optional render history.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
