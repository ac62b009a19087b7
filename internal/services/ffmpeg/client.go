package ffmpeg

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"lipsync/internal/services"
)

var commandContext = exec.CommandContext

// Engine defines the multimedia operations the pipeline depends on.
type Engine interface {
	Transcode(ctx context.Context, src, dst string) error
	Compose(ctx context.Context, req Request) error
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

// CLI drives the ffmpeg command-line tool.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Transcode converts src into dst, overwriting dst. The container format is
// inferred from the destination extension.
func (c *CLI) Transcode(ctx context.Context, src, dst string) error {
	if src == "" || dst == "" {
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "transcode", "source and destination required", nil)
	}
	return c.run(ctx, "transcode", []string{"-y", "-i", src, dst})
}

// Compose renders the layered video described by req. The render targets a
// temporary file next to the output and is renamed into place on success, so
// a failed run never leaves a partial video behind.
func (c *CLI) Compose(ctx context.Context, req Request) error {
	partial := partialPath(req.OutputPath)
	renderReq := req
	renderReq.OutputPath = partial

	args, err := buildComposeArgs(renderReq)
	if err != nil {
		return err
	}
	if err := c.run(ctx, "compose", args); err != nil {
		_ = os.Remove(partial)
		return err
	}
	if err := os.Rename(partial, req.OutputPath); err != nil {
		_ = os.Remove(partial)
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "compose", "finalize output", err)
	}
	return nil
}

func (c *CLI) run(ctx context.Context, operation string, args []string) error {
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return services.Wrap(services.ErrExternalTool, "ffmpeg", operation, tail(string(output)), err)
	}
	return nil
}

func partialPath(output string) string {
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + ".partial" + ext
}

// tail keeps the last few lines of tool output; ffmpeg prints the actual
// failure at the end of a long banner.
func tail(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

var _ Engine = (*CLI)(nil)
