package audio

import (
	"audioconv/command"
)

// Task is a compiled invocation bound to its resolved output path.
type Task struct {
	inv        *Invocation
	outputPath string
}

// NewTask binds inv to outputPath.
func NewTask(inv *Invocation, outputPath string) *Task {
	return &Task{inv: inv, outputPath: outputPath}
}

var _ command.Command = (*Task)(nil)

// BuildArgs returns the full engine arguments.
func (t *Task) BuildArgs() []string {
	return t.inv.Argv(t.outputPath)
}

// DryRun returns the command line without executing it.
func (t *Task) DryRun() string {
	return command.Preview(command.EngineName, t.BuildArgs())
}

// GetIndex returns the batch ordinal.
func (t *Task) GetIndex() int {
	return t.inv.Index
}

// GetInputPath returns the input file path.
func (t *Task) GetInputPath() string {
	return t.inv.InputPath
}

// GetOutputPath returns the output file path.
func (t *Task) GetOutputPath() string {
	return t.outputPath
}

// Invocation returns the compiled invocation.
func (t *Task) Invocation() *Invocation {
	return t.inv
}
