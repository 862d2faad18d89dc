// Package main provides the entry point for the namedlock CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mrz1836/namedlock/internal/cli"
	"github.com/mrz1836/namedlock/internal/errors"
)

// Set via ldflags at build time.
//
//nolint:gochecknoglobals // build metadata
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	ctx := context.Background()
	err := cli.Execute(ctx, cli.BuildInfo{Version: version, Commit: commit, Date: date})
	cli.CloseLogFile()
	if err == nil {
		return
	}

	_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
	if message, action := errors.Actionable(err); message != err.Error() {
		_, _ = fmt.Fprintln(os.Stderr, message)
		if action != "" {
			_, _ = fmt.Fprintln(os.Stderr, "Try:", action)
		}
	}
	os.Exit(cli.ExitCodeForError(err))
}
