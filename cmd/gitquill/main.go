// Package main is the entry point for the gitquill CLI. gitquill drafts
// a commit message for a single file's pending changes using an
// OpenAI-compatible endpoint, lets the user review it, then commits.
package main

import (
	"fmt"
	"os"

	"github.com/gitquill/gitquill/internal/cmd"
	apperrors "github.com/gitquill/gitquill/internal/pkg/errors"
)

// Version information - set via ldflags during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := cmd.NewRootCmd(version, commit, date)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, apperrors.FormatError(err))
		os.Exit(apperrors.GetExitCode(err))
	}
}
