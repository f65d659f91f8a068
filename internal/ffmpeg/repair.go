package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kerignard/vodsplit/pkg/util"
)

// ErrUnreadable means the source video could not be opened even after the
// remux and re-encode repair tiers. Fatal for this input.
var ErrUnreadable = errors.New("source video unreadable after repair")

// EnsureReadable returns a path to an openable copy of src: src itself, a
// remuxed copy, or a re-encoded copy, in that order. canOpen probes whether
// a decoder accepts the file; it is injected so this package stays free of
// decoder dependencies.
//
// Many real-world recordings have minor container corruption that a
// sequential decoder chokes on but a stream copy fixes. The remux tier is
// cheap, so it is tried first; the full re-encode runs only when the remuxed
// file still fails to open. Each tier is a single one-shot invocation.
func (e *Executor) EnsureReadable(ctx context.Context, src string, canOpen func(string) bool) (string, error) {
	if canOpen(src) {
		return src, nil
	}

	base := strings.TrimSuffix(src, filepath.Ext(src))

	fixed := base + "_fixed.mp4"
	// A repaired copy from an earlier run is reused rather than regenerated.
	if util.FileExists(fixed) && canOpen(fixed) {
		e.logger.Info().Str("output", fixed).Msg("reusing repaired copy")
		return fixed, nil
	}

	e.logger.Warn().Str("input", src).Msg("source failed to open, attempting remux")
	if err := e.remux(ctx, src, fixed); err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		e.logger.Warn().Err(err).Msg("remux failed")
	} else if canOpen(fixed) {
		e.logger.Info().Str("output", fixed).Msg("remux repaired source")
		return fixed, nil
	}

	reenc := base + "_reenc.mp4"
	if util.FileExists(reenc) && canOpen(reenc) {
		e.logger.Info().Str("output", reenc).Msg("reusing re-encoded copy")
		return reenc, nil
	}

	e.logger.Warn().Str("input", src).Msg("falling back to full re-encode")
	if err := e.reencode(ctx, src, reenc); err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		return "", fmt.Errorf("%w: re-encode: %v", ErrUnreadable, err)
	}
	if !canOpen(reenc) {
		return "", ErrUnreadable
	}
	e.logger.Info().Str("output", reenc).Msg("re-encode repaired source")
	return reenc, nil
}

// remux stream-copies into a fresh container, ignoring decode errors.
func (e *Executor) remux(ctx context.Context, src, dst string) error {
	return e.Run(ctx, RunOptions{
		Args: []string{
			"-err_detect", "ignore_err",
			"-i", src,
			"-map", "0",
			"-c", "copy",
			"-movflags", "+faststart",
			dst,
		},
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("remux")
		},
	})
}

// reencode transcodes the original with a fixed quality preset.
func (e *Executor) reencode(ctx context.Context, src, dst string) error {
	return e.Run(ctx, RunOptions{
		Args: []string{
			"-err_detect", "ignore_err",
			"-i", src,
			"-map", "0",
			"-c:v", DefaultVideoCodec,
			"-preset", DefaultPreset,
			"-crf", fmt.Sprintf("%d", DefaultCRF),
			"-c:a", DefaultAudioCodec,
			"-b:a", DefaultAudioBitrate,
			"-movflags", "+faststart",
			dst,
		},
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("re-encode")
		},
	})
}
