package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/graag/mythcommflag-silence/internal/services"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps fatal failures to a distinct code so callers such as
// the job queue can tell a broken environment from a transient
// delivery problem.
func exitCode(err error) int {
	if services.IsFatal(err) {
		return 2
	}
	return 1
}
