package timeline

// Interval pairs a symbolic label with a playback duration in seconds.
// Sequence order is playback order.
type Interval struct {
	Label    string
	Duration float64
}

// Frame is a single timestamped label emitted by the phoneme aligner.
// Timestamps are expected to be strictly increasing.
type Frame struct {
	Timestamp float64
	Label     string
}

// FromFrames converts timestamped frames into contiguous intervals. Each
// frame's duration is the gap to its successor; the final frame has no
// successor to bound it and is dropped. Fewer than two frames yields an
// empty timeline.
func FromFrames(frames []Frame) []Interval {
	if len(frames) < 2 {
		return nil
	}
	intervals := make([]Interval, 0, len(frames)-1)
	for i := 0; i < len(frames)-1; i++ {
		intervals = append(intervals, Interval{
			Label:    frames[i].Label,
			Duration: frames[i+1].Timestamp - frames[i].Timestamp,
		})
	}
	return intervals
}

// Total returns the cumulative duration of the timeline in seconds.
func Total(intervals []Interval) float64 {
	var sum float64
	for _, interval := range intervals {
		sum += interval.Duration
	}
	return sum
}
