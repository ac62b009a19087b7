package timeline

import "math/rand/v2"

// Blink phase labels. A blink mapping file must provide an image for each.
const (
	PhaseOpen    = "open"
	PhaseClosing = "closing"
	PhaseClosed  = "closed"
)

// FrameRate is the playback rate assumed when no rate is configured; the
// closing and closed phases each last exactly one frame.
const FrameRate = 24

// Source yields uniform floats in [0, 1). *rand.Rand satisfies it, so tests
// can pass a seeded generator for exact-sequence assertions.
type Source interface {
	Float64() float64
}

// Blink partitions total seconds of audio into repeating
// open/closing/closed cycles. Each open phase lasts a uniform random wait in
// [minWait, maxWait], clamped so the final wait never exceeds the remaining
// duration; the closing and closed phases each last one frame at frameRate.
// Generation stops once the accumulated cycle lengths reach total. A
// non-positive total yields an empty timeline, a non-positive frameRate
// falls back to FrameRate, and a nil src falls back to the shared generator.
func Blink(total, minWait, maxWait float64, frameRate int, src Source) []Interval {
	if src == nil {
		src = defaultSource{}
	}
	if frameRate <= 0 {
		frameRate = FrameRate
	}

	frame := 1.0 / float64(frameRate)

	var intervals []Interval
	remaining := total
	for remaining > 0 {
		wait := minWait + src.Float64()*(maxWait-minWait)
		if wait > remaining {
			wait = remaining
		}
		intervals = append(intervals,
			Interval{Label: PhaseOpen, Duration: wait},
			Interval{Label: PhaseClosing, Duration: frame},
			Interval{Label: PhaseClosed, Duration: frame},
		)
		remaining -= wait + 2*frame
	}
	return intervals
}

type defaultSource struct{}

func (defaultSource) Float64() float64 { return rand.Float64() }
