package ffmpeg

import "time"

// VideoInfo contains metadata about a video file
type VideoInfo struct {
	FilePath   string
	Duration   time.Duration
	Width      int
	Height     int
	FPS        float64
	FrameCount int
	VideoCodec string
	HasAudio   bool
	AudioCodec string
}

// Default encoding settings, matching the repair/cut re-encode tier.
const (
	DefaultCRF          = 20
	DefaultPreset       = "veryfast"
	DefaultVideoCodec   = "libx264"
	DefaultAudioCodec   = "aac"
	DefaultAudioBitrate = "160k"
)

// RunOptions configures one ffmpeg invocation
type RunOptions struct {
	Args       []string
	LogHandler func(line string)
}

// CutMode selects how segments are materialized.
type CutMode int

const (
	// ModeStreamCopy extracts byte ranges without re-encoding. Fast, but
	// cut points are bounded by keyframe alignment.
	ModeStreamCopy CutMode = iota
	// ModeReencode transcodes with a fixed quality preset, for sources
	// where stream copy produces corrupt boundaries.
	ModeReencode
)

// CutOptions configures segment materialization.
type CutOptions struct {
	Mode         CutMode
	Preset       string
	CRF          int
	AudioBitrate string
}
