// Package logging builds the hclog logger used across the converter.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mattn/go-isatty"
)

// Options configures New.
type Options struct {
	Name   string
	Level  string // trace, debug, info, warn, error
	Format string // console or json
	File   string // optional, appended to
	Output io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger and a closer for the optional log file. Output
// defaults to stderr.
func New(opts Options) (hclog.Logger, io.Closer, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = io.MultiWriter(out, f)
		closer = f
	}

	level := hclog.LevelFromString(strings.ToLower(opts.Level))
	if level == hclog.NoLevel {
		level = hclog.Info
	}

	name := opts.Name
	if name == "" {
		name = "audioconv"
	}

	jsonFormat := strings.EqualFold(opts.Format, "json")

	// Color only plain console output going straight to a terminal.
	color := hclog.ColorOff
	if !jsonFormat && opts.File == "" && isTerminal(out) {
		color = hclog.AutoColor
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      level,
		Output:     out,
		JSONFormat: jsonFormat,
		Color:      color,
	})
	return logger, closer, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
