package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audioconv/config"
	"audioconv/ffmpeg"
	"audioconv/internal/deps"
	"audioconv/models"
	"audioconv/orchestrator"
)

// sizedEngine writes 2048 bytes to the output unless the input is named
// bad.flac.
type sizedEngine struct{}

func (sizedEngine) Run(ctx context.Context, args []string) (ffmpeg.Result, error) {
	for i, a := range args {
		if a == "-i" && filepath.Base(args[i+1]) == "bad.flac" {
			return ffmpeg.Result{ExitCode: 2, Stderr: "boom"}, nil
		}
	}
	return ffmpeg.Result{}, os.WriteFile(args[len(args)-1], make([]byte, 2048), 0o644)
}

func TestRenderSummary(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.flac")
	bad := filepath.Join(dir, "bad.flac")
	writeFile(t, good, "x")
	writeFile(t, bad, "x")

	cfg := config.DefaultConfig()
	e := orchestrator.NewExecutor(cfg, sizedEngine{}, nil)
	e.SetLockDir(t.TempDir())

	res, err := e.Run(context.Background(), []string{good, bad})
	require.NoError(t, err)

	out := renderSummary(res, 90*time.Second)
	assert.Contains(t, out, filepath.Join(dir, "good.wav"))
	assert.Contains(t, out, "2.0 kB")
	assert.Contains(t, out, "failed (exit 2)")
	assert.Contains(t, out, "1 succeeded, 1 failed, 0 skipped, 0 cancelled in 00:01:30.00")
	assert.True(t, strings.HasSuffix(out, "done with errors. failures: 1\n"))
}

func TestOutputSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.mp3")
	require.NoError(t, os.WriteFile(path, make([]byte, 1500), 0o644))

	assert.Equal(t, "1.5 kB", outputSize(models.TaskOutcome{Kind: models.OutcomeSucceeded, OutputPath: path}))
	assert.Equal(t, "1.5 kB", outputSize(models.TaskOutcome{Kind: models.OutcomeSkipped, OutputPath: path}))
	assert.Equal(t, "-", outputSize(models.TaskOutcome{Kind: models.OutcomeFailed, OutputPath: path}))
	assert.Equal(t, "-", outputSize(models.TaskOutcome{Kind: models.OutcomeSucceeded, OutputPath: filepath.Join(dir, "gone.mp3")}))
}

func TestOutcomeLabel(t *testing.T) {
	assert.Equal(t, "succeeded", outcomeLabel(models.TaskOutcome{Kind: models.OutcomeSucceeded}))
	assert.Equal(t, "failed (exit 3)", outcomeLabel(models.TaskOutcome{Kind: models.OutcomeFailed, ExitCode: 3}))
	assert.Equal(t, "failed", outcomeLabel(models.TaskOutcome{Kind: models.OutcomeFailed, ExitCode: -1}))
	assert.Equal(t, "cancelled", outcomeLabel(models.TaskOutcome{Kind: models.OutcomeCancelled}))
}

func TestRenderDeps(t *testing.T) {
	out := renderDeps([]deps.Status{
		{Name: "ffmpeg", Command: "/usr/bin/ffmpeg", Available: true},
		{Name: "ffprobe", Detail: `binary "ffprobe" not found in PATH`},
	})
	assert.Contains(t, out, "/usr/bin/ffmpeg")
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "missing")
	assert.Contains(t, out, "not found in PATH")
}

func TestRenderTable_Empty(t *testing.T) {
	assert.Equal(t, "", renderTable(nil, nil))
}

func TestRenderTable_PadsShortRowsAndDropsExtraCells(t *testing.T) {
	cols := []column{{"Name", text.AlignLeft}, {"Count", text.AlignRight}}
	out := renderTable(cols, []table.Row{{"short"}, {"long", 42, "extra"}})

	assert.Contains(t, out, "short")
	assert.Contains(t, out, "42")
	assert.NotContains(t, out, "extra")
}
