package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/dendrascience/treeport/internal/cmd"
	"github.com/dendrascience/treeport/pipeline"
)

func main() {
	if err := fang.Execute(context.Background(), cmd.NewRootCmd()); err != nil {
		var failure *pipeline.Failure
		if errors.As(err, &failure) {
			os.Exit(failure.Kind.ExitCode())
		}
		// Anything else at this point is cobra rejecting the
		// invocation itself (wrong argument count, unknown flag).
		os.Exit(pipeline.KindUsage.ExitCode())
	}
}
