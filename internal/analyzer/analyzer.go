// Package analyzer runs the external zunda binary for one sentence and
// returns its raw output.
package analyzer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/modality/internal/model"
)

var (
	// ErrNotFound is returned when the analyzer binary cannot be located
	ErrNotFound = errors.New("analyzer binary not found")

	// ErrMultiline is returned for input the analyzer would treat as several sentences
	ErrMultiline = errors.New("sentence contains a line break")
)

// waitDelay bounds how long output pipes are drained after the analyzer is killed
const waitDelay = time.Second

// Analyzer produces raw analyzer output for a sentence
type Analyzer interface {
	Analyze(ctx context.Context, sentence string) ([]byte, error)
}

// ExitError reports a non-zero analyzer exit
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("analyzer exited with status %d", e.Code)
	}
	return fmt.Sprintf("analyzer exited with status %d: %s", e.Code, e.Stderr)
}

// Runner executes the analyzer binary. The sentence is written to stdin and
// arguments are passed as a list, never through a shell.
type Runner struct {
	binary  string
	args    []string
	timeout time.Duration
	log     *zap.Logger
}

// NewRunner creates a runner from the analyzer configuration
func NewRunner(cfg model.AnalyzerConfig, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		binary:  cfg.Binary,
		args:    append([]string(nil), cfg.Args...),
		timeout: cfg.Timeout,
		log:     log.Named("analyzer"),
	}
}

// Binary returns the configured executable
func (r *Runner) Binary() string {
	return r.binary
}

// Args returns the extra arguments passed to the executable
func (r *Runner) Args() []string {
	return append([]string(nil), r.args...)
}

// Analyze runs the analyzer on a single sentence and returns its stdout
func (r *Runner) Analyze(ctx context.Context, sentence string) ([]byte, error) {
	if strings.ContainsAny(sentence, "\r\n") {
		return nil, ErrMultiline
	}

	path, err := exec.LookPath(r.binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, r.binary, err)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, r.args...)
	cmd.Stdin = strings.NewReader(sentence + "\n")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err = cmd.Run()
	r.log.Debug("Analyzer finished",
		zap.String("binary", path),
		zap.Strings("args", r.args),
		zap.Int("stdout_bytes", stdout.Len()),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err))

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("run analyzer: %w", ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ExitError{Code: exitErr.ExitCode(), Stderr: strings.TrimSpace(stderr.String())}
		}
		return nil, fmt.Errorf("run analyzer: %w", err)
	}

	return stdout.Bytes(), nil
}

// SplitArgs turns a free-form argument string into an argument list.
// Words are split on whitespace only; no quoting or expansion is applied.
func SplitArgs(s string) []string {
	return strings.Fields(s)
}
