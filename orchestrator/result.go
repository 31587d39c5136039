package orchestrator

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hashicorp/go-hclog"

	"audioconv/models"
)

// LogLine is one user-facing line of a batch log.
type LogLine struct {
	Level hclog.Level
	Text  string
}

// BatchResult aggregates the outcomes of one run. Tasks append to it
// concurrently; each task contributes exactly one outcome.
type BatchResult struct {
	RunID string
	Total int

	mu       sync.Mutex
	outcomes []models.TaskOutcome
	lines    []LogLine
	counts   map[models.OutcomeKind]int
}

func newBatchResult(runID string, total int) *BatchResult {
	return &BatchResult{
		RunID:    runID,
		Total:    total,
		outcomes: make([]models.TaskOutcome, 0, total),
		counts:   make(map[models.OutcomeKind]int),
	}
}

// record appends an outcome and returns the number recorded so far.
func (r *BatchResult) record(o models.TaskOutcome) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
	r.counts[o.Kind]++
	return len(r.outcomes)
}

func (r *BatchResult) addLine(level hclog.Level, text string) {
	r.mu.Lock()
	r.lines = append(r.lines, LogLine{Level: level, Text: text})
	r.mu.Unlock()
}

// Outcomes returns every recorded outcome ordered by batch index.
func (r *BatchResult) Outcomes() []models.TaskOutcome {
	r.mu.Lock()
	out := append([]models.TaskOutcome(nil), r.outcomes...)
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Lines returns the log lines in the order they were emitted.
func (r *BatchResult) Lines() []LogLine {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]LogLine(nil), r.lines...)
}

// Count returns how many outcomes of kind were recorded.
func (r *BatchResult) Count(kind models.OutcomeKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[kind]
}

// Failures returns the number of failed tasks.
func (r *BatchResult) Failures() int {
	return r.Count(models.OutcomeFailed)
}

// Cancelled reports whether any task was cancelled before it started.
func (r *BatchResult) Cancelled() bool {
	return r.Count(models.OutcomeCancelled) > 0
}

// Clean reports whether no task failed.
func (r *BatchResult) Clean() bool {
	return r.Failures() == 0
}

// Summary returns the final status line.
func (r *BatchResult) Summary() string {
	if n := r.Failures(); n > 0 {
		return fmt.Sprintf("done with errors. failures: %d", n)
	}
	return "done."
}
