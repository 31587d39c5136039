// Package orchestrator runs a batch of conversions under a bounded
// concurrency limit and aggregates their outcomes.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"audioconv/config"
	"audioconv/ffmpeg"
	"audioconv/internal/deps"
	"audioconv/models"
	"audioconv/output"
)

// ErrNoInputs is returned when a batch has no input files.
var ErrNoInputs = errors.New("no input files")

// Engine runs one transcoder invocation. *ffmpeg.Runner implements it.
type Engine interface {
	Run(ctx context.Context, args []string) (ffmpeg.Result, error)
}

// Prober returns flat media info lines for a file. *ffprobe.Prober
// implements it.
type Prober interface {
	Info(ctx context.Context, path string) ([]string, error)
}

// ProgressFunc is called once per finished task with the number of tasks
// done so far. Calls are serialized.
type ProgressFunc func(done, total int, outcome models.TaskOutcome)

// Executor runs conversion batches for one configuration.
type Executor struct {
	cfg      *config.Config
	engine   Engine
	prober   Prober
	logger   hclog.Logger
	lockDir  string

	// passed to the output resolver of each run
	resolverOpts []output.Option

	onProgress ProgressFunc
}

// NewExecutor creates an executor. The configuration is copied; later changes
// to cfg do not affect the executor. A nil logger discards output.
func NewExecutor(cfg *config.Config, engine Engine, logger hclog.Logger) *Executor {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Executor{
		cfg:     cfg.Copy(),
		engine:  engine,
		logger:  logger,
		lockDir: os.TempDir(),
	}
}

// SetProber enables media-info display through p when the configuration asks
// for it. Without a prober the display is silently disabled.
func (e *Executor) SetProber(p Prober) {
	e.prober = p
}

// SetProgressCallback sets a callback for progress updates.
func (e *Executor) SetProgressCallback(callback ProgressFunc) {
	e.onProgress = callback
}

// SetLockDir changes where run lock files are created.
func (e *Executor) SetLockDir(dir string) {
	e.lockDir = dir
}

// SetResolverOptions passes options to the output resolver of each run.
func (e *Executor) SetResolverOptions(opts ...output.Option) {
	e.resolverOpts = opts
}

// Run converts inputs and returns the aggregated result.
//
// A returned error means the batch was refused before any task ran: no
// inputs, an invalid configuration, no engine, or a locked output directory.
// Individual task failures are reported only through the BatchResult.
//
// Cancelling ctx stops tasks that have not started yet; they are recorded as
// cancelled. A conversion already running is allowed to finish.
func (e *Executor) Run(ctx context.Context, inputs []string) (*BatchResult, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	if e.engine == nil {
		return nil, deps.ErrFfmpegNotFound
	}

	resolver, err := output.NewResolver(e.cfg, e.resolverOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	if e.cfg.Output.Placement == config.PlacementDir {
		lock, err := acquireDirLock(e.lockDir, strings.TrimSpace(e.cfg.Output.Dir))
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := lock.release(); err != nil {
				e.logger.Warn("failed to release run lock", "path", lock.path, "error", err)
			}
		}()
	}

	runID := uuid.NewString()
	res := newBatchResult(runID, len(inputs))
	logger := e.logger.With("run", runID)

	b := &batch{
		Executor: e,
		res:      res,
		logger:   logger,
		resolver: resolver,
	}

	b.emit(hclog.Info, "start")
	logger.Debug("batch configuration", "format", e.cfg.Format, "concurrency", e.cfg.Concurrency,
		"placement", e.cfg.Output.Placement, "files", len(inputs), "dry_run", e.cfg.DryRun)

	if e.cfg.Concurrency <= 1 {
		for i, input := range inputs {
			b.runOne(ctx, i+1, input)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(e.cfg.Concurrency)
		for i, input := range inputs {
			index := i + 1
			g.Go(func() error {
				b.runOne(ctx, index, input)
				return nil
			})
		}
		_ = g.Wait()
	}

	if n := res.Count(models.OutcomeCancelled); n > 0 {
		b.emit(hclog.Warn, fmt.Sprintf("cancelled. not started: %d", n))
	}
	if res.Clean() {
		b.emit(hclog.Info, res.Summary())
	} else {
		b.emit(hclog.Error, res.Summary())
	}
	return res, nil
}

// batch is the per-run state shared by all tasks of one Run call.
type batch struct {
	*Executor
	res      *BatchResult
	logger   hclog.Logger
	resolver *output.Resolver

	// serializes record + progress callback
	progressMu sync.Mutex
}

// runOne executes one task unless the run was cancelled, and records its
// outcome exactly once.
func (b *batch) runOne(ctx context.Context, index int, input string) {
	var outcome models.TaskOutcome
	if err := ctx.Err(); err != nil {
		outcome = models.NewOutcomeCancelled(index, input, err)
	} else {
		outcome = b.convert(ctx, index, input)
	}

	b.progressMu.Lock()
	defer b.progressMu.Unlock()
	done := b.res.record(outcome)
	if b.onProgress != nil {
		b.onProgress(done, b.res.Total, outcome)
	}
}

// emit writes a user-facing line to the logger and the batch result.
func (b *batch) emit(level hclog.Level, text string, args ...interface{}) {
	b.res.addLine(level, text)
	b.logger.Log(level, text, args...)
}
