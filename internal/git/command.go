// Package git provides Git repository access for gitbridge.
// This file provides shared git command execution utilities.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// RunCommand executes a git command in the specified directory and returns its
// stdout. Failures are classified against known git diagnostics so callers can
// match sentinel errors with errors.Is; anything unrecognized is wrapped with
// ErrGitOperation. Stderr is included in the error for debugging.
func RunCommand(ctx context.Context, workDir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...) //#nosec G204 -- args are constructed internally, not user input
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// Check for context cancellation
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		// git writes some diagnostics (e.g. "nothing to commit") to stdout,
		// so classify against both streams.
		diag := strings.TrimSpace(stderr.String())
		if diag == "" {
			diag = strings.TrimSpace(stdout.String())
		}
		if diag == "" {
			// Some commands (show-ref, rev-parse --quiet) fail silently;
			// keep the exit status visible for callers that inspect it.
			diag = err.Error()
		}

		sentinel := ClassifyOutput(diag)
		return "", fmt.Errorf("git %s failed: %s: %w", args[0], diag, sentinel)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// runCommandRaw is like RunCommand but preserves stdout verbatim, including
// trailing newlines. Patch output is whitespace-sensitive.
func runCommandRaw(ctx context.Context, workDir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...) //#nosec G204 -- args are constructed internally, not user input
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		diag := strings.TrimSpace(stderr.String())
		sentinel := ClassifyOutput(diag)
		if diag != "" {
			return "", fmt.Errorf("git %s failed: %s: %w", args[0], diag, sentinel)
		}
		return "", fmt.Errorf("git %s failed: %w", args[0], sentinel)
	}

	return stdout.String(), nil
}
