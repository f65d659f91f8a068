package segments

// Sample is one decoded frame reduced to a timestamp and an optional clock
// reading. Samples must be fed to the machine in increasing timestamp order.
type Sample struct {
	Time     float64 // seconds since the start of the video
	Clock    int     // on-screen clock value in seconds, valid when HasClock
	HasClock bool
}

// Segment is a contiguous time range of the source video judged to contain
// one complete match.
type Segment struct {
	Start float64
	End   float64
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Config holds the detection tunables. The defaults are tuned for one
// specific clock overlay; a different overlay style likely needs re-tuning.
type Config struct {
	StartThresholdSec float64 // a clock reading at or below this opens a segment
	MinGapSec         float64 // minimum time between two segment starts
	MissingLimit      int     // consecutive unreadable samples before closing
	TailSec           float64 // padding added after the last clock sighting
	MinSegmentSec     float64 // segments shorter than this are discarded
}

// DefaultConfig returns the reference tunables.
func DefaultConfig() Config {
	return Config{
		StartThresholdSec: 120,
		MinGapSec:         90,
		MissingLimit:      10,
		TailSec:           20,
		MinSegmentSec:     120,
	}
}
