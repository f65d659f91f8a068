package segments

// Machine consumes a timestamp-ordered stream of samples and emits closed
// segments. Emitted segments are disjoint and ordered by start: at most one
// is open at any time, and a new segment never opens at or before the
// previous emitted end. All bookkeeping lives in explicit fields; feeding
// the same stream twice yields the same segment list.
type Machine struct {
	cfg      Config
	duration float64 // total video duration, used to clamp segment ends

	open      bool
	openStart float64
	lastStart float64 // time of the most recent start, for the debounce gap
	lastEnd   float64 // end of the most recent emitted segment
	lastSeen  float64 // time of the last readable clock
	hasSeen   bool
	missing   int // consecutive unreadable samples
}

// NewMachine creates a machine for one scan over a video of the given
// duration in seconds.
func NewMachine(cfg Config, videoDuration float64) *Machine {
	return &Machine{
		cfg:       cfg,
		duration:  videoDuration,
		lastStart: -9999, // the first start is never debounced
		lastEnd:   -9999,
	}
}

// Feed processes one sample. It returns a segment and true when the sample
// closed a segment that satisfies the minimum duration; candidates below the
// minimum are discarded silently.
func (m *Machine) Feed(s Sample) (Segment, bool) {
	if s.HasClock {
		m.lastSeen = s.Time
		m.hasSeen = true
		m.missing = 0
	} else {
		m.missing++
	}

	// A low clock reading signals a freshly started match. The gap guard
	// suppresses re-triggering on clock flicker near the threshold; the
	// lastEnd guard keeps starts out of the previous segment's tail, which
	// can extend past the sample that closed it when the tail is large.
	if !m.open && s.HasClock && float64(s.Clock) <= m.cfg.StartThresholdSec {
		if s.Time-m.lastStart >= m.cfg.MinGapSec && s.Time > m.lastEnd {
			m.open = true
			m.openStart = s.Time
			m.lastStart = s.Time
		}
	}

	if m.open && m.hasSeen && m.missing >= m.cfg.MissingLimit {
		end := m.lastSeen + m.cfg.TailSec
		if end > m.duration {
			end = m.duration
		}
		seg := Segment{Start: m.openStart, End: end}
		m.open = false
		m.missing = 0
		if seg.Duration() >= m.cfg.MinSegmentSec {
			m.lastEnd = seg.End
			return seg, true
		}
	}

	return Segment{}, false
}

// Flush closes any open segment at end of stream, using the video duration
// as the end instead of the tail padding. The same minimum-duration filter
// applies.
func (m *Machine) Flush() (Segment, bool) {
	if !m.open {
		return Segment{}, false
	}
	seg := Segment{Start: m.openStart, End: m.duration}
	m.open = false
	if seg.Duration() >= m.cfg.MinSegmentSec {
		m.lastEnd = seg.End
		return seg, true
	}
	return Segment{}, false
}

// Open reports whether a segment is currently in progress. An open segment
// is discarded, not emitted, when a scan is aborted.
func (m *Machine) Open() bool {
	return m.open
}
