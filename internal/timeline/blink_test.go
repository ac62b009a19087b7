package timeline_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"lipsync/internal/timeline"
)

const frame = 1.0 / timeline.FrameRate

func TestBlinkEmptyForNonPositiveDuration(t *testing.T) {
	for _, total := range []float64{0, -1, -0.001} {
		if intervals := timeline.Blink(total, 2, 4, timeline.FrameRate, nil); len(intervals) != 0 {
			t.Fatalf("expected empty timeline for total %f, got %d intervals", total, len(intervals))
		}
	}
}

func TestBlinkSinglePointRangeIsDeterministic(t *testing.T) {
	intervals := timeline.Blink(5.0, 2.0, 2.0, timeline.FrameRate, nil)

	// Two full cycles of 2 + 2/24 seconds fit in 5 seconds, then a clamped
	// final cycle covers the remainder.
	if len(intervals) != 9 {
		t.Fatalf("expected 9 intervals (3 cycles), got %d", len(intervals))
	}
	for cycle := 0; cycle < 3; cycle++ {
		open := intervals[cycle*3]
		closing := intervals[cycle*3+1]
		closed := intervals[cycle*3+2]
		if open.Label != timeline.PhaseOpen || closing.Label != timeline.PhaseClosing || closed.Label != timeline.PhaseClosed {
			t.Fatalf("cycle %d: unexpected phase order %q %q %q", cycle, open.Label, closing.Label, closed.Label)
		}
		if !almostEqual(closing.Duration, frame) || !almostEqual(closed.Duration, frame) {
			t.Fatalf("cycle %d: expected one-frame closing/closed phases, got %f and %f", cycle, closing.Duration, closed.Duration)
		}
	}
	if !almostEqual(intervals[0].Duration, 2.0) || !almostEqual(intervals[3].Duration, 2.0) {
		t.Fatalf("expected two full 2s waits, got %f and %f", intervals[0].Duration, intervals[3].Duration)
	}
	finalWait := intervals[6].Duration
	if finalWait < 0 || finalWait > 5.0-2*(2.0+2*frame)+1e-9 {
		t.Fatalf("expected final wait clamped to remainder, got %f", finalWait)
	}
}

func TestBlinkHonorsFrameRate(t *testing.T) {
	intervals := timeline.Blink(5.0, 2.0, 2.0, 12, nil)
	if len(intervals) < 3 {
		t.Fatalf("expected at least one cycle, got %d intervals", len(intervals))
	}
	want := 1.0 / 12
	if !almostEqual(intervals[1].Duration, want) || !almostEqual(intervals[2].Duration, want) {
		t.Fatalf("expected 1/12s closing/closed phases at 12fps, got %f and %f",
			intervals[1].Duration, intervals[2].Duration)
	}

	fallback := timeline.Blink(5.0, 2.0, 2.0, 0, nil)
	if !almostEqual(fallback[1].Duration, frame) {
		t.Fatalf("expected default frame duration for non-positive rate, got %f", fallback[1].Duration)
	}
}

func TestBlinkSeededSourceReproducible(t *testing.T) {
	first := timeline.Blink(10, 1, 3, timeline.FrameRate, rand.New(rand.NewPCG(7, 11)))
	second := timeline.Blink(10, 1, 3, timeline.FrameRate, rand.New(rand.NewPCG(7, 11)))
	if len(first) != len(second) {
		t.Fatalf("expected identical lengths, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("interval %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestBlinkStructuralProperties(t *testing.T) {
	cases := []struct {
		name             string
		total            float64
		minWait, maxWait float64
	}{
		{"short", 1.5, 2.0, 4.0},
		{"typical", 30, 2.0, 4.0},
		{"tight range", 12, 0.5, 0.5},
		{"wide range", 60, 0.1, 8.0},
	}

	rng := rand.New(rand.NewPCG(1, 2))
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			intervals := timeline.Blink(tc.total, tc.minWait, tc.maxWait, timeline.FrameRate, rng)
			if len(intervals)%3 != 0 {
				t.Fatalf("expected whole cycles, got %d intervals", len(intervals))
			}
			if len(intervals) == 0 {
				t.Fatal("expected at least one cycle for positive duration")
			}
			for i := 0; i < len(intervals); i += 3 {
				open := intervals[i]
				if open.Label != timeline.PhaseOpen {
					t.Fatalf("interval %d: expected open phase, got %q", i, open.Label)
				}
				if open.Duration < 0 || open.Duration > tc.maxWait+1e-9 {
					t.Fatalf("interval %d: open duration %f outside [0, %f]", i, open.Duration, tc.maxWait)
				}
			}
			covered := timeline.Total(intervals)
			if covered < tc.total-(tc.maxWait+2*frame)-1e-9 {
				t.Fatalf("timeline covers %f, expected at least %f", covered, tc.total-(tc.maxWait+2*frame))
			}
		})
	}
}

func TestBlinkCoversDurationWithinOneCycle(t *testing.T) {
	total := 7.3
	intervals := timeline.Blink(total, 2, 2, timeline.FrameRate, nil)
	covered := timeline.Total(intervals)
	if covered < total-1e-9 {
		t.Fatalf("expected coverage of at least the audio duration, got %f < %f", covered, total)
	}
	if covered > total+2.0+2*frame {
		t.Fatalf("expected coverage within one cycle of the audio duration, got %f", covered)
	}
	if math.Signbit(intervals[len(intervals)-3].Duration) {
		t.Fatalf("final open duration must not be negative: %f", intervals[len(intervals)-3].Duration)
	}
}
