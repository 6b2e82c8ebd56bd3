package main

import (
	"fmt"
	"io"

	"github.com/osa030/schelper/internal/channel"
)

const (
	exitSuccess        = 0
	exitFailure        = 1
	exitNotImplemented = 3
)

// printResult writes result for a shell caller and returns the exit status.
func printResult(stdout, stderr io.Writer, result channel.Result) int {
	switch r := result.(type) {
	case channel.Success:
		fmt.Fprintln(stdout, r.Value)
		return exitSuccess
	case channel.Failure:
		fmt.Fprintf(stderr, "%s: %s\n", r.Code, r.Message)
		return exitFailure
	case channel.NotImplemented:
		fmt.Fprintf(stderr, "not implemented: %s\n", r.Method)
		return exitNotImplemented
	}
	fmt.Fprintf(stderr, "unexpected result %T\n", result)
	return exitFailure
}
