package segments

import (
	"math/rand"
	"reflect"
	"testing"
)

func testConfig() Config {
	return Config{
		StartThresholdSec: 120,
		MinGapSec:         90,
		MissingLimit:      10,
		TailSec:           20,
		MinSegmentSec:     120,
	}
}

// runStream feeds every sample and flushes, collecting emitted segments.
func runStream(cfg Config, duration float64, stream []Sample) []Segment {
	m := NewMachine(cfg, duration)
	var segs []Segment
	for _, s := range stream {
		if seg, ok := m.Feed(s); ok {
			segs = append(segs, seg)
		}
	}
	if seg, ok := m.Flush(); ok {
		segs = append(segs, seg)
	}
	return segs
}

func clockAt(t float64, v int) Sample { return Sample{Time: t, Clock: v, HasClock: true} }
func missAt(t float64) Sample         { return Sample{Time: t} }

func TestScriptedGameStream(t *testing.T) {
	// Clock readable and counting up from a low value, then lost for good.
	var stream []Sample
	stream = append(stream, clockAt(0, 125)) // above threshold, no start
	for ts := 3.0; ts <= 300; ts += 3 {
		stream = append(stream, clockAt(ts, 118+int(ts-3)))
	}
	// Ten consecutive misses after the last sighting at t=300.
	for ts := 303.0; ts <= 330; ts += 3 {
		stream = append(stream, missAt(ts))
	}
	// A new game starts late; the stream ends before it gets long enough.
	stream = append(stream, clockAt(333, 5))

	segs := runStream(testConfig(), 400, stream)

	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d: %v", len(segs), segs)
	}
	if segs[0].Start != 3 {
		t.Errorf("segment start = %v, want 3 (first reading at or below threshold)", segs[0].Start)
	}
	if segs[0].End != 320 {
		t.Errorf("segment end = %v, want 320 (last sighting 300 + tail 20)", segs[0].End)
	}
}

func TestStartDebounce(t *testing.T) {
	m := NewMachine(testConfig(), 1000)

	// Open at t=0, then lose the clock long enough to close. The candidate
	// is too short and gets discarded, but the start time still counts for
	// the debounce gap.
	m.Feed(clockAt(0, 10))
	m.Feed(clockAt(3, 13))
	m.Feed(clockAt(6, 16))
	for ts := 9.0; ts <= 36; ts += 3 {
		if seg, ok := m.Feed(missAt(ts)); ok {
			t.Fatalf("short candidate emitted: %v", seg)
		}
	}
	if m.Open() {
		t.Fatal("segment still open after missing limit")
	}

	// Within the gap: a low reading must not reopen.
	m.Feed(clockAt(40, 15))
	if m.Open() {
		t.Error("segment reopened inside the debounce gap")
	}

	// Past the gap: it must.
	m.Feed(clockAt(95, 15))
	if !m.Open() {
		t.Error("segment did not open after the debounce gap elapsed")
	}
}

func TestShortCandidateDiscarded(t *testing.T) {
	// A single isolated low reading surrounded by misses: the candidate
	// duration is far below the minimum, so nothing is emitted.
	var stream []Sample
	stream = append(stream, clockAt(0, 30))
	for ts := 3.0; ts <= 60; ts += 3 {
		stream = append(stream, missAt(ts))
	}

	segs := runStream(testConfig(), 600, stream)
	if len(segs) != 0 {
		t.Fatalf("expected no segments, got %v", segs)
	}
}

func TestLargeTailKeepsSegmentsDisjoint(t *testing.T) {
	// With a tail larger than the missing window the computed end lands
	// well past the sample that closed the segment. A low reading inside
	// that stretch must not open a new segment on top of the emitted one.
	cfg := testConfig()
	cfg.TailSec = 200

	var stream []Sample
	for ts := 0.0; ts <= 300; ts += 3 {
		stream = append(stream, clockAt(ts, 10))
	}
	for ts := 303.0; ts <= 330; ts += 3 {
		stream = append(stream, missAt(ts))
	}
	// Low readings resume before the first segment's end at 500.
	for ts := 333.0; ts <= 510; ts += 3 {
		stream = append(stream, clockAt(ts, 10))
	}
	for ts := 513.0; ts <= 540; ts += 3 {
		stream = append(stream, missAt(ts))
	}

	segs := runStream(cfg, 1000, stream)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d: %v", len(segs), segs)
	}
	if segs[0].End != 500 {
		t.Errorf("first end = %v, want 500 (last sighting 300 + tail 200)", segs[0].End)
	}
	if segs[1].Start != 501 {
		t.Errorf("second start = %v, want 501 (first low reading past the previous end)", segs[1].Start)
	}
	if segs[1].Start <= segs[0].End {
		t.Errorf("segments overlap: first ends at %v, second starts at %v", segs[0].End, segs[1].Start)
	}
}

func TestEndOfStreamClosesAtDuration(t *testing.T) {
	// Clock readable to the very end: the segment must close at the video
	// duration, not at lastSeen+tail.
	var stream []Sample
	for ts := 0.0; ts <= 600; ts += 3 {
		stream = append(stream, clockAt(ts, int(ts)))
	}

	const duration = 612.5
	segs := runStream(testConfig(), duration, stream)
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if segs[0].End != duration {
		t.Errorf("segment end = %v, want video duration %v", segs[0].End, duration)
	}
}

func TestTailClampedToDuration(t *testing.T) {
	var stream []Sample
	for ts := 0.0; ts <= 300; ts += 3 {
		stream = append(stream, clockAt(ts, int(ts)))
	}
	for ts := 303.0; ts <= 333; ts += 3 {
		stream = append(stream, missAt(ts))
	}

	// Duration shorter than lastSeen+tail: the end must clamp.
	segs := runStream(testConfig(), 310, stream)
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if segs[0].End != 310 {
		t.Errorf("segment end = %v, want clamped duration 310", segs[0].End)
	}
}

// randomStream builds a deterministic pseudo-random sample stream.
func randomStream(seed int64, duration float64) []Sample {
	rng := rand.New(rand.NewSource(seed))
	var stream []Sample
	for ts := 0.0; ts < duration; ts += 3 {
		switch rng.Intn(4) {
		case 0:
			stream = append(stream, missAt(ts))
		default:
			stream = append(stream, clockAt(ts, rng.Intn(2400)))
		}
	}
	return stream
}

func TestInvariantsOverRandomStreams(t *testing.T) {
	longTail := testConfig()
	longTail.TailSec = 200

	for _, cfg := range []Config{testConfig(), longTail} {
		for seed := int64(0); seed < 50; seed++ {
			const duration = 7200.0
			stream := randomStream(seed, duration)
			segs := runStream(cfg, duration, stream)

			prevEnd := -1.0
			for i, seg := range segs {
				if seg.Duration() < cfg.MinSegmentSec {
					t.Errorf("tail %v seed %d: segment %d shorter than minimum: %v", cfg.TailSec, seed, i, seg)
				}
				if seg.Start <= prevEnd {
					t.Errorf("tail %v seed %d: segment %d overlaps or is out of order: %v (prev end %v)", cfg.TailSec, seed, i, seg, prevEnd)
				}
				if seg.End > duration {
					t.Errorf("tail %v seed %d: segment %d ends past duration: %v", cfg.TailSec, seed, i, seg)
				}
				prevEnd = seg.End
			}

			// Idempotence: the same stream yields the same list.
			again := runStream(cfg, duration, stream)
			if !reflect.DeepEqual(segs, again) {
				t.Errorf("tail %v seed %d: second run differs: %v vs %v", cfg.TailSec, seed, segs, again)
			}
		}
	}
}
