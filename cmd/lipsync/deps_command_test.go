package main

import (
	"strings"
	"testing"

	"lipsync/internal/deps"
)

func TestDepsCommandReportsStubbedTools(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	stubBinaries(t, "rhubarb", "ffmpeg", "ffprobe")

	out, _, err := runCLI(t, []string{"deps"}, "")
	if err != nil {
		t.Fatalf("deps: %v", err)
	}
	requireContains(t, out, "all dependencies available")
	requireContains(t, out, "Rhubarb")
	requireContains(t, out, "FFmpeg")
	requireContains(t, out, "FFprobe")
}

func TestDepsCommandFailsWhenToolsMissing(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PATH", t.TempDir())

	out, _, err := runCLI(t, []string{"deps"}, "")
	if err == nil {
		t.Fatal("expected deps to fail with empty PATH")
	}
	requireContains(t, out, "[ERROR]")
}

func TestDependencyLines(t *testing.T) {
	statuses := []deps.Status{
		{Name: "Rhubarb", Available: false, Detail: `binary "rhubarb" not found`},
		{Name: "FFmpeg", Available: true, Command: "ffmpeg"},
		{Name: "Extra", Available: false, Optional: true, Detail: "not configured"},
	}
	lines := dependencyLines(statuses, false)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "[ERROR]") || !strings.Contains(lines[0], "Summary") {
		t.Fatalf("expected summary line first, got %q", lines[0])
	}
	if !strings.Contains(lines[1], `binary "rhubarb" not found`) {
		t.Fatalf("expected missing detail in second line, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "[OK] Ready (command: ffmpeg)") {
		t.Fatalf("expected ready detail in third line, got %q", lines[2])
	}
	if !strings.Contains(lines[3], "[WARN] not configured") {
		t.Fatalf("expected warn detail in fourth line, got %q", lines[3])
	}
}
