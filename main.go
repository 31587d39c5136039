package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	err := cmd.Execute()
	if err == nil {
		return
	}

	var exit *exitError
	if errors.As(err, &exit) {
		if exit.err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", exit.err)
		}
		os.Exit(exit.code)
	}
	fmt.Fprintf(os.Stderr, "❌ %v\n", err)
	os.Exit(1)
}
