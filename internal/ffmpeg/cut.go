package ffmpeg

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/kerignard/vodsplit/internal/segments"
	"github.com/kerignard/vodsplit/pkg/util"
)

// CutFailure records one segment whose cut invocation failed. Sibling
// segments keep cutting; failures are reported after the batch.
type CutFailure struct {
	Index  int // 1-based segment ordinal
	Output string
	Err    error
}

func (f CutFailure) Error() string {
	return fmt.Sprintf("segment %d (%s): %v", f.Index, f.Output, f.Err)
}

// CutSegments materializes each segment to Game_NN.mp4 under outDir with one
// transcoder invocation per segment. The returned error is non-nil only for
// batch-level problems (bad output dir, canceled context); per-segment
// failures come back in the second return value.
func (e *Executor) CutSegments(ctx context.Context, input string, segs []segments.Segment, outDir string, opts CutOptions) ([]string, []CutFailure, error) {
	if len(segs) == 0 {
		return nil, nil, fmt.Errorf("no segments to cut")
	}
	if err := util.EnsureDir(outDir); err != nil {
		return nil, nil, fmt.Errorf("create output dir: %w", err)
	}

	var (
		outputs  []string
		failures []CutFailure
	)
	for i, seg := range segs {
		if err := ctx.Err(); err != nil {
			return outputs, failures, err
		}

		out := filepath.Join(outDir, fmt.Sprintf("Game_%02d.mp4", i+1))

		e.logger.Info().
			Str("input", input).
			Str("output", out).
			Str("start", util.FormatClock(seg.Start)).
			Str("end", util.FormatClock(seg.End)).
			Bool("reencode", opts.Mode == ModeReencode).
			Msg("cutting segment")

		if err := e.cutOne(ctx, input, seg, out, opts); err != nil {
			e.logger.Error().Err(err).Int("segment", i+1).Msg("segment cut failed")
			failures = append(failures, CutFailure{Index: i + 1, Output: out, Err: err})
			continue
		}
		outputs = append(outputs, out)
	}

	return outputs, failures, nil
}

func (e *Executor) cutOne(ctx context.Context, input string, seg segments.Segment, out string, opts CutOptions) error {
	// Input-side seeking keeps stream copy fast on long recordings.
	args := []string{
		"-ss", util.FormatSeconds(seg.Start),
		"-to", util.FormatSeconds(seg.End),
		"-i", input,
	}

	if opts.Mode == ModeStreamCopy {
		args = append(args, "-c", "copy")
	} else {
		preset := opts.Preset
		if preset == "" {
			preset = DefaultPreset
		}
		crf := opts.CRF
		if crf == 0 {
			crf = DefaultCRF
		}
		bitrate := opts.AudioBitrate
		if bitrate == "" {
			bitrate = DefaultAudioBitrate
		}
		args = append(args,
			"-c:v", DefaultVideoCodec,
			"-preset", preset,
			"-crf", strconv.Itoa(crf),
			"-c:a", DefaultAudioCodec,
			"-b:a", bitrate,
		)
	}

	args = append(args, out)

	return e.Run(ctx, RunOptions{
		Args: args,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("segment cut")
		},
	})
}
