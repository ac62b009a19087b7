package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"lipsync/internal/services"
	"lipsync/internal/timeline"
)

func TestNewCLIWithBinary(t *testing.T) {
	cli := NewCLI(WithBinary("/opt/ffmpeg"))
	if cli.binary != "/opt/ffmpeg" {
		t.Fatalf("expected binary override to be applied, got %q", cli.binary)
	}
}

func TestTranscodeRequiresPaths(t *testing.T) {
	cli := NewCLI()
	if err := cli.Transcode(context.Background(), "", "out.wav"); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected error for empty source, got %v", err)
	}
	if err := cli.Transcode(context.Background(), "in.mp3", ""); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected error for empty destination, got %v", err)
	}
}

func TestBuildComposeArgsMinimal(t *testing.T) {
	args, err := buildComposeArgs(Request{
		Mouth: []timeline.Interval{
			{Label: "a.png", Duration: 0.5},
			{Label: "b.png", Duration: 0.7},
		},
		AudioPath:  "narration.wav",
		OutputPath: "out.mkv",
	})
	if err != nil {
		t.Fatalf("buildComposeArgs returned error: %v", err)
	}

	joined := strings.Join(args, " ")
	for _, fragment := range []string{
		"-loop 1 -t 0.500000 -i a.png",
		"-loop 1 -t 0.700000 -i b.png",
		"[0:v][1:v]concat=n=2:v=1:a=0[mouth]",
		"-map [mouth]",
		"-map 2:a",
		"-c:v qtrle",
		"-pix_fmt argb",
	} {
		if !strings.Contains(joined, fragment) {
			t.Fatalf("expected args to contain %q, got %q", fragment, joined)
		}
	}
	if args[len(args)-1] != "out.mkv" {
		t.Fatalf("expected output path last, got %q", args[len(args)-1])
	}
	if args[0] != "-y" {
		t.Fatalf("expected overwrite flag first, got %q", args[0])
	}
}

func TestBuildComposeArgsLayersBackgroundAndBlink(t *testing.T) {
	args, err := buildComposeArgs(Request{
		Mouth: []timeline.Interval{
			{Label: "a.png", Duration: 0.5},
			{Label: "b.png", Duration: 0.7},
		},
		Blink: []timeline.Interval{
			{Label: "open.png", Duration: 2},
			{Label: "closing.png", Duration: 1.0 / 24},
			{Label: "closed.png", Duration: 1.0 / 24},
		},
		Background: "bg.png",
		AudioPath:  "narration.wav",
		OutputPath: "out.mkv",
	})
	if err != nil {
		t.Fatalf("buildComposeArgs returned error: %v", err)
	}

	joined := strings.Join(args, " ")
	// Inputs are mouth (0,1), blink (2,3,4), background (5), audio (6).
	for _, fragment := range []string{
		"[0:v][1:v]concat=n=2:v=1:a=0[mouth]",
		"[5:v][mouth]overlay[bg]",
		"[2:v][3:v][4:v]concat=n=3:v=1:a=0[blink]",
		"[bg][blink]overlay[vout]",
		"-map [vout]",
		"-map 6:a",
	} {
		if !strings.Contains(joined, fragment) {
			t.Fatalf("expected args to contain %q, got %q", fragment, joined)
		}
	}
}

func TestBuildComposeArgsHonorsCodecOverrides(t *testing.T) {
	args, err := buildComposeArgs(Request{
		Mouth:       []timeline.Interval{{Label: "a.png", Duration: 1}},
		AudioPath:   "narration.wav",
		OutputPath:  "out.mov",
		Codec:       "png",
		PixelFormat: "rgba",
	})
	if err != nil {
		t.Fatalf("buildComposeArgs returned error: %v", err)
	}
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-c:v png") || !strings.Contains(joined, "-pix_fmt rgba") {
		t.Fatalf("expected codec overrides in %q", joined)
	}
}

func TestBuildComposeArgsValidation(t *testing.T) {
	base := Request{
		Mouth:      []timeline.Interval{{Label: "a.png", Duration: 1}},
		AudioPath:  "narration.wav",
		OutputPath: "out.mkv",
	}

	missingMouth := base
	missingMouth.Mouth = nil
	if _, err := buildComposeArgs(missingMouth); err == nil {
		t.Fatal("expected error for missing mouth chunks")
	}

	missingAudio := base
	missingAudio.AudioPath = ""
	if _, err := buildComposeArgs(missingAudio); err == nil {
		t.Fatal("expected error for missing audio")
	}

	missingOutput := base
	missingOutput.OutputPath = ""
	if _, err := buildComposeArgs(missingOutput); err == nil {
		t.Fatal("expected error for missing output")
	}
}

func TestComposeRenamesPartialOnSuccess(t *testing.T) {
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "FFMPEG_HELPER_MODE=render", "FFMPEG_HELPER_OUTPUT="+args[len(args)-1])
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})

	dir := t.TempDir()
	output := filepath.Join(dir, "out.mkv")
	cli := NewCLI()
	err := cli.Compose(context.Background(), Request{
		Mouth:      []timeline.Interval{{Label: "a.png", Duration: 1}},
		AudioPath:  "narration.wav",
		OutputPath: output,
	})
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("expected output file, got %v", err)
	}
	if _, err := os.Stat(partialPath(output)); !os.IsNotExist(err) {
		t.Fatalf("expected partial file to be gone, got %v", err)
	}
}

func TestComposeLeavesNoOutputOnFailure(t *testing.T) {
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "FFMPEG_HELPER_MODE=fail")
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})

	dir := t.TempDir()
	output := filepath.Join(dir, "out.mkv")
	cli := NewCLI()
	err := cli.Compose(context.Background(), Request{
		Mouth:      []timeline.Interval{{Label: "a.png", Duration: 1}},
		AudioPath:  "narration.wav",
		OutputPath: output,
	})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatalf("expected no output file, got %v", statErr)
	}
	if _, statErr := os.Stat(partialPath(output)); !os.IsNotExist(statErr) {
		t.Fatalf("expected no partial file, got %v", statErr)
	}
}

func TestPartialPathKeepsExtension(t *testing.T) {
	if got := partialPath("/tmp/out.mkv"); got != "/tmp/out.partial.mkv" {
		t.Fatalf("unexpected partial path %q", got)
	}
}

func TestTailKeepsLastLines(t *testing.T) {
	output := "one\ntwo\nthree\nfour\nfive\nsix\nseven"
	got := tail(output)
	if strings.Contains(got, "one") || !strings.Contains(got, "seven") {
		t.Fatalf("expected only trailing lines, got %q", got)
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	switch os.Getenv("FFMPEG_HELPER_MODE") {
	case "render":
		if out := os.Getenv("FFMPEG_HELPER_OUTPUT"); out != "" {
			if err := os.WriteFile(out, []byte("video"), 0o644); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		}
		os.Exit(0)
	default:
		fmt.Fprint(os.Stderr, "ffmpeg: banner\nbanner\nError opening input\n")
		os.Exit(1)
	}
}
