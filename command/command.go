// Package command provides the core Command interface shared by compiled
// engine invocations.
//
// A Command is produced once per input file per run and consumed exactly once
// by the engine gateway. It is immutable after construction.
package command

import (
	"strconv"
	"strings"
)

// EngineName is the program name shown in previews.
const EngineName = "ffmpeg"

// Command represents an FFmpeg invocation that can be previewed or executed.
//
// Example usage:
//
//	inv, _ := audio.Compile(cfg, "/music/song.flac", 1)
//	task := audio.NewTask(inv, "/music/song.mp3")
//
//	// Preview the command
//	fmt.Println(task.DryRun())
//
//	// Execute it through the gateway
//	res, err := runner.Run(ctx, task.BuildArgs())
type Command interface {
	// BuildArgs returns the complete FFmpeg argument vector without the
	// program name. The output path is always the last element.
	BuildArgs() []string

	// DryRun returns the command as a shell-style string without executing it.
	DryRun() string

	// GetIndex returns the 1-based ordinal of the input within its batch.
	GetIndex() int

	// GetInputPath returns the input file path for this command.
	GetInputPath() string

	// GetOutputPath returns the output file path for this command.
	GetOutputPath() string
}

// Preview renders args after the program name, quoting any argument a shell
// would split or interpret.
func Preview(program string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, program)
	for _, a := range args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

func quoteArg(a string) string {
	if a == "" {
		return `""`
	}
	if strings.ContainsAny(a, " \t\n\"'\\$`;&|<>*?()[]{}!#~") {
		return strconv.Quote(a)
	}
	return a
}
