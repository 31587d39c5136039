package orchestrator

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"audioconv/command/audio"
	"audioconv/config"
	"audioconv/ffmpeg"
	"audioconv/internal/fileutil"
	"audioconv/models"
)

// convert runs every step of one task: resolve, compile, engine run and
// post-action. It never returns a Go error; failures become outcomes.
func (b *batch) convert(ctx context.Context, index int, input string) models.TaskOutcome {
	target, err := b.resolver.Resolve(input, index)
	if err != nil {
		b.emit(hclog.Error, fmt.Sprintf("%s: %v", input, err))
		return b.failed(index, input, "", -1, err)
	}
	if target.Skip {
		b.emit(hclog.Info, "skip: "+input)
		return models.NewOutcomeSkipped(index, input, target.Path)
	}

	inv, err := audio.Compile(b.cfg, input, index)
	if err != nil {
		b.emit(hclog.Error, fmt.Sprintf("%s: %v", input, err))
		return b.failed(index, input, target.Path, -1, err)
	}
	task := audio.NewTask(inv, target.Path)

	b.emit(hclog.Info, fmt.Sprintf("%s -> %s", input, target.Path), "index", index)

	if b.cfg.DryRun {
		b.emit(hclog.Info, "dry run: "+task.DryRun())
		return b.succeeded(index, input, target.Path)
	}

	b.mediaInfo(ctx, input)

	// in-flight conversions are not interrupted by cancellation
	res, err := b.engine.Run(context.WithoutCancel(ctx), task.BuildArgs())
	if err != nil {
		b.emit(hclog.Error, fmt.Sprintf("%s: %v", input, err))
		return b.failed(index, input, target.Path, res.ExitCode, err)
	}
	if !res.Succeeded() {
		for _, line := range res.Tail(ffmpeg.DiagnosticTailLines) {
			b.emit(hclog.Error, line)
		}
		return b.failed(index, input, target.Path, res.ExitCode,
			fmt.Errorf("ffmpeg exited with status %d", res.ExitCode))
	}

	b.postAction(input, target.Dir)
	b.mediaInfo(ctx, target.Path)

	return b.succeeded(index, input, target.Path)
}

// postAction copies or moves the original input into the output directory.
// Errors are logged and never change the task's outcome.
func (b *batch) postAction(input, dir string) {
	switch b.cfg.PostAction {
	case config.PostActionCopy:
		if _, err := fileutil.CopyInto(input, dir); err != nil {
			b.emit(hclog.Warn, fmt.Sprintf("copy failed: %v", err))
		}
	case config.PostActionMove:
		if _, err := fileutil.MoveInto(input, dir); err != nil {
			b.emit(hclog.Warn, fmt.Sprintf("move failed: %v", err))
		}
	}
}

// mediaInfo logs the prober's summary of path when info display is on.
func (b *batch) mediaInfo(ctx context.Context, path string) {
	if !b.cfg.ShowInfo || b.prober == nil {
		return
	}
	lines, err := b.prober.Info(context.WithoutCancel(ctx), path)
	if err != nil {
		b.logger.Debug("media info unavailable", "path", path, "error", err)
		return
	}
	for _, line := range lines {
		b.emit(hclog.Info, "info: "+line)
	}
}

func (b *batch) succeeded(index int, input, out string) models.TaskOutcome {
	o, err := models.NewOutcomeSuccess(index, input, out)
	if err != nil {
		return b.failed(index, input, out, 0, err)
	}
	return o
}

func (b *batch) failed(index int, input, out string, exitCode int, cause error) models.TaskOutcome {
	o, err := models.NewOutcomeFailure(index, input, out, exitCode, cause)
	if err != nil {
		return models.TaskOutcome{Index: index, InputPath: input, OutputPath: out, Kind: models.OutcomeFailed, ExitCode: exitCode, Error: err}
	}
	return o
}
