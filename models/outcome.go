package models

import (
	"fmt"
	"strings"
)

// OutcomeKind classifies how a single conversion task ended.
type OutcomeKind string

const (
	OutcomeSucceeded OutcomeKind = "succeeded" // Engine exited 0 (or dry run)
	OutcomeFailed    OutcomeKind = "failed"    // Resolution failure or non-zero engine exit
	OutcomeSkipped   OutcomeKind = "skipped"   // Collision policy said skip
	OutcomeCancelled OutcomeKind = "cancelled" // Run cancelled before the task started
)

// TaskOutcome represents the result of converting one input file.
//
// Index is the 1-based ordinal of the input in the original batch order, not
// the order of completion. Successful outcomes carry the output path; failed
// outcomes carry the error that caused them.
//
// Use the NewOutcome* constructors to create consistent instances.
type TaskOutcome struct {
	Index      int         `json:"index"`
	InputPath  string      `json:"input_path"`
	OutputPath string      `json:"output_path,omitempty"`
	Kind       OutcomeKind `json:"kind"`
	ExitCode   int         `json:"exit_code"`
	Error      error       `json:"-"`
}

// NewOutcomeSuccess creates a succeeded outcome.
//
// Returns an error if outputPath is empty or whitespace-only.
func NewOutcomeSuccess(index int, input, outputPath string) (TaskOutcome, error) {
	o := TaskOutcome{Index: index, InputPath: input, OutputPath: outputPath, Kind: OutcomeSucceeded}
	if err := o.Validate(); err != nil {
		return TaskOutcome{}, fmt.Errorf("invalid task outcome: %w", err)
	}
	return o, nil
}

// NewOutcomeFailure creates a failed outcome. The error must not be nil.
func NewOutcomeFailure(index int, input, outputPath string, exitCode int, cause error) (TaskOutcome, error) {
	if cause == nil {
		return TaskOutcome{}, fmt.Errorf("invalid task outcome: error cannot be nil for failed outcome")
	}
	return TaskOutcome{
		Index:      index,
		InputPath:  input,
		OutputPath: outputPath,
		Kind:       OutcomeFailed,
		ExitCode:   exitCode,
		Error:      cause,
	}, nil
}

// NewOutcomeSkipped creates a skipped outcome for an existing destination.
func NewOutcomeSkipped(index int, input, existing string) TaskOutcome {
	return TaskOutcome{Index: index, InputPath: input, OutputPath: existing, Kind: OutcomeSkipped}
}

// NewOutcomeCancelled creates an outcome for a task that never started.
func NewOutcomeCancelled(index int, input string, cause error) TaskOutcome {
	return TaskOutcome{Index: index, InputPath: input, Kind: OutcomeCancelled, Error: cause}
}

// Failed reports whether the outcome counts against the batch.
func (o TaskOutcome) Failed() bool {
	return o.Kind == OutcomeFailed
}

// Validate checks that the outcome has consistent state.
//
// Returns an error if:
//   - Kind is unknown
//   - a succeeded outcome has an error or no output path
//   - a failed outcome has no error
func (o TaskOutcome) Validate() error {
	switch o.Kind {
	case OutcomeSucceeded:
		if o.Error != nil {
			return fmt.Errorf("inconsistent state: succeeded outcome has an error")
		}
		if strings.TrimSpace(o.OutputPath) == "" {
			return fmt.Errorf("output_path cannot be empty for succeeded outcome")
		}
	case OutcomeFailed:
		if o.Error == nil {
			return fmt.Errorf("failed outcome must have an error")
		}
	case OutcomeSkipped, OutcomeCancelled:
	default:
		return fmt.Errorf("unknown outcome kind %q", o.Kind)
	}
	return nil
}
