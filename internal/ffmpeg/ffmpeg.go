package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Executor handles all ffmpeg operations
type Executor struct {
	logger      zerolog.Logger
	ffmpegPath  string
	ffprobePath string
	runner      Runner
}

// New creates an ffmpeg executor. binaryPath overrides PATH lookup when
// non-empty; ffprobe is always resolved from PATH.
func New(logger zerolog.Logger, binaryPath string) (*Executor, error) {
	ffmpegPath := binaryPath
	if ffmpegPath == "" {
		found, err := exec.LookPath("ffmpeg")
		if err != nil {
			return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
		}
		ffmpegPath = found
	}

	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}

	return &Executor{
		logger:      logger.With().Str("component", "ffmpeg").Logger(),
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		runner:      processRunner{},
	}, nil
}

// NewWithRunner creates an executor with an injected runner. Used by tests
// to script subprocess outcomes.
func NewWithRunner(logger zerolog.Logger, ffmpegPath, ffprobePath string, runner Runner) *Executor {
	return &Executor{
		logger:      logger.With().Str("component", "ffmpeg").Logger(),
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		runner:      runner,
	}
}

// Run executes ffmpeg with the given arguments. On failure the error carries
// the tail of the diagnostic output.
func (e *Executor) Run(ctx context.Context, opts RunOptions) error {
	if len(opts.Args) == 0 {
		return fmt.Errorf("no arguments provided")
	}

	args := append([]string{"-y", "-hide_banner", "-loglevel", "error"}, opts.Args...)

	e.logger.Debug().
		Str("cmd", "ffmpeg").
		Strs("args", args).
		Msg("executing ffmpeg")

	var mu sync.Mutex
	var tail []string
	err := e.runner.Run(ctx, e.ffmpegPath, args, func(line string) {
		if opts.LogHandler != nil {
			opts.LogHandler(line)
		}
		mu.Lock()
		tail = append(tail, line)
		if len(tail) > 20 {
			tail = tail[1:]
		}
		mu.Unlock()
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if len(tail) > 0 {
			return fmt.Errorf("ffmpeg execution failed: %w: %s", err, strings.Join(tail, "; "))
		}
		return fmt.Errorf("ffmpeg execution failed: %w", err)
	}

	e.logger.Debug().Msg("ffmpeg execution completed")
	return nil
}
