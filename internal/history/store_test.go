package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"lipsync/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("Close returned error: %v", err)
		}
	})
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		entry := history.Entry{
			RunID:        "run-" + string(rune('a'+i)),
			AudioPath:    "/audio/narration.wav",
			OutputPath:   "/out/video.mkv",
			AudioSeconds: 12.5,
			MouthChunks:  40,
			BlinkChunks:  9,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		if _, err := store.Record(ctx, entry); err != nil {
			t.Fatalf("Record returned error: %v", err)
		}
	}

	entries, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].RunID != "run-c" || entries[1].RunID != "run-b" {
		t.Fatalf("expected newest first, got %q then %q", entries[0].RunID, entries[1].RunID)
	}
	if entries[0].MouthChunks != 40 || entries[0].BlinkChunks != 9 {
		t.Fatalf("unexpected chunk counts: %+v", entries[0])
	}
	if !entries[0].CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("unexpected created_at: %v", entries[0].CreatedAt)
	}
}

func TestRecentEmptyStore(t *testing.T) {
	store := openStore(t)
	entries, err := store.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer store.Close()
	if store.Path() != path {
		t.Fatalf("unexpected path: %q", store.Path())
	}
}
