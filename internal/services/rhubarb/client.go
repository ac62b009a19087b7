package rhubarb

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"lipsync/internal/services"
	"lipsync/internal/timeline"
)

var commandContext = exec.CommandContext

// Aligner defines phoneme alignment behaviour.
type Aligner interface {
	Align(ctx context.Context, audioPath string) ([]timeline.Frame, error)
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the rhubarb command-line aligner.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "rhubarb"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// SupportsFormat reports whether rhubarb accepts the audio file directly.
func SupportsFormat(audioPath string) bool {
	switch strings.ToLower(filepath.Ext(audioPath)) {
	case ".wav", ".ogg":
		return true
	default:
		return false
	}
}

// Align runs rhubarb against the audio file and returns timestamped frames.
// A non-zero exit or unparsable output is an alignment failure; no partial
// result is returned.
func (c *CLI) Align(ctx context.Context, audioPath string) ([]timeline.Frame, error) {
	if audioPath == "" {
		return nil, services.Wrap(services.ErrAlignment, "rhubarb", "align", "audio path required", nil)
	}

	cmd := commandContext(ctx, c.binary, "-q", audioPath) //nolint:gosec
	output, err := cmd.Output()
	if err != nil {
		detail := commandError(err)
		return nil, services.Wrap(services.ErrAlignment, "rhubarb", "run", detail, err)
	}

	frames, err := ParseFrames(string(output))
	if err != nil {
		return nil, services.Wrap(services.ErrAlignment, "rhubarb", "parse", "", err)
	}
	return frames, nil
}

// ParseFrames decodes rhubarb's tab-separated (timestamp, label) rows.
// Timestamps must be strictly increasing.
func ParseFrames(output string) ([]timeline.Frame, error) {
	var frames []timeline.Frame
	for i, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected 2 tab-separated fields, got %d", i+1, len(fields))
		}
		stamp, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad timestamp %q: %w", i+1, fields[0], err)
		}
		label := strings.TrimSpace(fields[1])
		if label == "" {
			return nil, fmt.Errorf("line %d: empty label", i+1)
		}
		if len(frames) > 0 && stamp <= frames[len(frames)-1].Timestamp {
			return nil, fmt.Errorf("line %d: timestamp %v not after %v", i+1, stamp, frames[len(frames)-1].Timestamp)
		}
		frames = append(frames, timeline.Frame{Timestamp: stamp, Label: label})
	}
	return frames, nil
}

func commandError(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if detail := strings.TrimSpace(string(exitErr.Stderr)); detail != "" {
			return detail
		}
	}
	return ""
}

var _ Aligner = (*CLI)(nil)
