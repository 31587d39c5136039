// Package ffmpeg is the process boundary to the external engine binaries.
//
// A Runner starts one process per call and reports its exit code together
// with everything it wrote to stdout and stderr. A non-zero exit is not a Go
// error; only failing to start or wait for the process is.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// DiagnosticTailLines is how many trailing stderr lines are reported for a
// failed conversion.
const DiagnosticTailLines = 6

// waitDelay bounds how long Run waits for output pipes after the process is
// killed.
const waitDelay = 5 * time.Second

// Result holds the outcome of one engine process.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Succeeded reports whether the process exited with status 0.
func (r Result) Succeeded() bool {
	return r.ExitCode == 0
}

// Tail returns the last n non-empty lines of stderr.
func (r Result) Tail(n int) []string {
	return TailLines(r.Stderr, n)
}

// Runner executes a single binary.
type Runner struct {
	binary string
	logger hclog.Logger
}

// NewRunner returns a runner for binary. A nil logger discards output.
func NewRunner(binary string, logger hclog.Logger) *Runner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Runner{binary: binary, logger: logger}
}

// Binary returns the executable path.
func (r *Runner) Binary() string {
	return r.binary
}

// Run executes the binary with args and waits for it to exit. The process is
// killed if ctx is cancelled; callers that must not interrupt a conversion
// pass a context detached from cancellation.
func (r *Runner) Run(ctx context.Context, args []string) (Result, error) {
	cmd := exec.CommandContext(ctx, r.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	r.logger.Trace("exec", "binary", r.binary, "args", args)

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr) && exitErr.ExitCode() >= 0:
		res.ExitCode = exitErr.ExitCode()
	default:
		res.ExitCode = -1
		return res, fmt.Errorf("failed to run %s: %w", r.binary, err)
	}

	r.logger.Debug("exec finished", "binary", r.binary, "exit_code", res.ExitCode, "duration", res.Duration)
	return res, nil
}

// TailLines returns the last n non-empty lines of s, trimmed.
func TailLines(s string, n int) []string {
	if n <= 0 {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
