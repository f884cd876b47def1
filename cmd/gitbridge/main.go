// Package main provides the entry point for the gitbridge CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/gitbridge/internal/cli"
)

// Build-time variables set via ldflags.
//
//nolint:gochecknoglobals // Set by the linker at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx := context.Background()

	err := cli.Execute(ctx, cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	cli.CloseLogFile()
	os.Exit(cli.ExitCodeForError(err))
}
