package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/kerignard/vodsplit/internal/clock"
	"github.com/kerignard/vodsplit/internal/config"
	"github.com/kerignard/vodsplit/internal/ffmpeg"
	"github.com/kerignard/vodsplit/internal/ocr"
	"github.com/kerignard/vodsplit/internal/segments"
	"github.com/kerignard/vodsplit/internal/video"
	"github.com/kerignard/vodsplit/pkg/util"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"gocv.io/x/gocv"
)

// ErrNoSegments means the scan completed but found no games.
var ErrNoSegments = errors.New("no game segments detected")

// Pipeline orchestrates the scan-and-cut workflow: repair-or-open the source,
// sample frames in timestamp order, read the clock per sample, feed the
// segment state machine, then materialize the cuts.
type Pipeline struct {
	logger    zerolog.Logger
	cfg       *config.Config
	ffmpeg    *ffmpeg.Executor
	engine    ocr.Engine
	extractor *clock.Extractor
	quiet     bool
}

// Options configures pipeline behavior.
type Options struct {
	// Quiet suppresses the scan progress bar.
	Quiet bool
}

// New creates a pipeline instance
func New(logger zerolog.Logger, cfg *config.Config, opts Options) (*Pipeline, error) {
	exec, err := ffmpeg.New(logger, cfg.FFmpeg.BinaryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ffmpeg: %w", err)
	}

	engine, err := ocr.NewTesseract(cfg.OCR.Language, cfg.OCR.TessdataPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ocr engine: %w", err)
	}

	return &Pipeline{
		logger:    logger.With().Str("component", "pipeline").Logger(),
		cfg:       cfg,
		ffmpeg:    exec,
		engine:    engine,
		extractor: clock.NewExtractor(logger, engine),
		quiet:     opts.Quiet,
	}, nil
}

// Close releases pipeline resources
func (p *Pipeline) Close() error {
	return p.engine.Close()
}

// ScanResult is the outcome of one detection scan.
type ScanResult struct {
	// Input is the path scanning actually used: the original file, or the
	// repaired copy when the original container was corrupt. Cuts must use
	// this path too.
	Input    string
	Segments []segments.Segment
	Duration float64
	Sampled  int
}

// Detect scans the input video and returns the detected game segments in
// chronological order. The context is checked once per sample tick; on
// cancellation any open segment is discarded and the context error returned.
func (p *Pipeline) Detect(ctx context.Context, input string) (*ScanResult, error) {
	usable, err := p.ffmpeg.EnsureReadable(ctx, input, video.CanOpen)
	if err != nil {
		return nil, err
	}

	src, err := video.Open(usable)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	det := p.cfg.Detector
	fps := src.FrameRate()
	duration := src.Duration()

	step := int(fps * det.SampleIntervalSec)
	if step < 1 {
		step = 1
	}

	p.logger.Info().
		Str("input", src.Path()).
		Float64("fps", fps).
		Int("frames", src.FrameCount()).
		Str("duration", util.FormatClock(duration)).
		Float64("sample_interval_sec", det.SampleIntervalSec).
		Msg("starting scan")

	machine := segments.NewMachine(det.MachineConfig(), duration)
	bar := p.newProgressBar(src.FrameCount())

	frame := gocv.NewMat()
	defer frame.Close()

	var (
		segs    []segments.Segment
		sampled int
	)
	for idx := 0; ; idx += step {
		if err := ctx.Err(); err != nil {
			// Any open segment is discarded, not emitted.
			return nil, err
		}
		if !src.Read(&frame) {
			break
		}
		sampled++

		t := float64(idx) / fps
		region := video.Crop(frame, det.ROI)
		value, ok := p.extractor.Extract(region)
		region.Close()

		wasOpen := machine.Open()
		seg, closed := machine.Feed(segments.Sample{Time: t, Clock: value, HasClock: ok})
		if !wasOpen && machine.Open() {
			p.logger.Info().
				Str("at", util.FormatClock(t)).
				Int("clock", value).
				Msg("game start detected")
		}
		if closed {
			segs = append(segs, seg)
			p.logger.Info().
				Str("start", util.FormatClock(seg.Start)).
				Str("end", util.FormatClock(seg.End)).
				Str("length", util.FormatClock(seg.Duration())).
				Msg("game segment closed")
		}

		src.Skip(step - 1)
		_ = bar.Add(step)
	}
	_ = bar.Finish()

	if seg, ok := machine.Flush(); ok {
		segs = append(segs, seg)
		p.logger.Info().
			Str("start", util.FormatClock(seg.Start)).
			Str("end", util.FormatClock(seg.End)).
			Msg("game segment closed at end of stream")
	}

	p.logger.Info().
		Int("sampled_frames", sampled).
		Int("segments", len(segs)).
		Msg("scan complete")

	return &ScanResult{
		Input:    usable,
		Segments: segs,
		Duration: duration,
		Sampled:  sampled,
	}, nil
}

// Cut materializes the segments from a completed scan into outDir.
func (p *Pipeline) Cut(ctx context.Context, res *ScanResult, outDir string, reencode bool) ([]string, []ffmpeg.CutFailure, error) {
	if res == nil || len(res.Segments) == 0 {
		return nil, nil, ErrNoSegments
	}

	mode := ffmpeg.ModeStreamCopy
	if reencode {
		mode = ffmpeg.ModeReencode
	}

	return p.ffmpeg.CutSegments(ctx, res.Input, res.Segments, outDir, ffmpeg.CutOptions{
		Mode:         mode,
		Preset:       p.cfg.FFmpeg.Preset,
		CRF:          p.cfg.FFmpeg.CRF,
		AudioBitrate: p.cfg.FFmpeg.AudioBitrate,
	})
}

func (p *Pipeline) newProgressBar(totalFrames int) *progressbar.ProgressBar {
	if p.quiet {
		return progressbar.DefaultSilent(int64(totalFrames))
	}
	return progressbar.NewOptions(totalFrames,
		progressbar.OptionSetDescription("scanning"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
