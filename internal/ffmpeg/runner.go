package ffmpeg

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

// Runner starts one-shot external processes. Keeping process spawning behind
// this port lets tests script repair-tier fallback and cut-failure isolation
// without a real transcoder.
type Runner interface {
	// Run executes a process, streaming each combined-output line to onLine.
	// A non-zero exit status is returned as an error.
	Run(ctx context.Context, name string, args []string, onLine func(string)) error
	// Output executes a process and returns its combined output.
	Output(ctx context.Context, name string, args []string) ([]byte, error)
}

// processRunner is the real subprocess-backed Runner.
type processRunner struct{}

func (processRunner) Run(ctx context.Context, name string, args []string, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, name, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		scanLines(stderr, onLine)
	}()
	go func() {
		defer wg.Done()
		scanLines(stdout, onLine)
	}()
	wg.Wait()

	return cmd.Wait()
}

func (processRunner) Output(ctx context.Context, name string, args []string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

func scanLines(r io.Reader, onLine func(string)) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if onLine != nil {
			onLine(scanner.Text())
		}
	}
}
