// Package video adapts a video container for sequential sampled frame reads.
package video

import (
	"fmt"

	"gocv.io/x/gocv"
)

// fallbackFPS is used when the container reports a zero frame rate.
const fallbackFPS = 30.0

// Source owns an open video handle for the lifetime of one scan. It must be
// closed on every exit path.
type Source struct {
	path   string
	cap    *gocv.VideoCapture
	fps    float64
	frames int
}

// Open opens a video file for reading. The caller is responsible for running
// the repair pass first when the container is corrupt; Open itself attempts
// no repair.
func Open(path string) (*Source, error) {
	cap, err := gocv.OpenVideoCapture(path)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", path, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("open video %s: container not readable", path)
	}

	fps := cap.Get(gocv.VideoCaptureFPS)
	if fps <= 0 {
		fps = fallbackFPS
	}

	return &Source{
		path:   path,
		cap:    cap,
		fps:    fps,
		frames: int(cap.Get(gocv.VideoCaptureFrameCount)),
	}, nil
}

// CanOpen reports whether the container decodes at all. Used as the probe
// for the repair tiers.
func CanOpen(path string) bool {
	cap, err := gocv.OpenVideoCapture(path)
	if err != nil {
		return false
	}
	defer cap.Close()
	return cap.IsOpened()
}

// Path returns the path the source was opened from.
func (s *Source) Path() string { return s.path }

// FrameRate returns the container frame rate in frames per second.
func (s *Source) FrameRate() float64 { return s.fps }

// FrameCount returns the total number of frames the container reports.
func (s *Source) FrameCount() int { return s.frames }

// Duration returns the video length in seconds.
func (s *Source) Duration() float64 {
	return float64(s.frames) / s.fps
}

// Read decodes the next frame into m. It returns false at end of stream.
func (s *Source) Read(m *gocv.Mat) bool {
	return s.cap.Read(m)
}

// Skip grabs n frames without decoding them, so sampling ticks stay cheap.
func (s *Source) Skip(n int) {
	if n > 0 {
		s.cap.Grab(n)
	}
}

// Close releases the video handle.
func (s *Source) Close() error {
	return s.cap.Close()
}
