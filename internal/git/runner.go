// Package git provides Git repository access for gitbridge.
// This file defines the Runner interface for repository operations.
package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gberrors "github.com/mrz1836/gitbridge/internal/errors"
)

// Runner defines the narrow set of repository operations consumed by the
// operation dispatcher. Each method is a single logical engine transaction
// against the repository the Runner was opened for.
//
// Runners are short-lived: one is opened per operation and discarded on every
// exit path, so no repository state survives between calls.
type Runner interface {
	// Status returns the current working tree status including staged,
	// unstaged, and untracked files.
	Status(ctx context.Context) (*Status, error)

	// StageAll stages every tracked and untracked change (git add -A).
	StageAll(ctx context.Context) error

	// Commit creates a commit from the index with the given message and
	// returns the new commit sha. Returns ErrNoChanges if the index matches
	// HEAD and there is nothing to commit.
	Commit(ctx context.Context, message string) (string, error)

	// Log returns up to limit commits reachable from ref, newest first.
	Log(ctx context.Context, ref string, limit int) ([]Commit, error)

	// Reset moves the current branch pointer to target under the given mode
	// and returns the new HEAD sha. The target must be a resolved full sha.
	Reset(ctx context.Context, target string, mode ResetMode) (string, error)

	// Diff compares two commits and returns raw per-file deltas. Order
	// matters only for patch direction and the sign of line counts.
	Diff(ctx context.Context, from, to string) ([]FileDelta, error)

	// CreateBranch creates a branch pointing at fromRef (current HEAD when
	// empty) without switching to it. Returns ErrBranchExists on collision.
	CreateBranch(ctx context.Context, name, fromRef string) error

	// SwitchBranch checks out an existing branch. Returns ErrBranchNotFound
	// if the branch does not exist.
	SwitchBranch(ctx context.Context, name string) error

	// Branches lists local branches ordered by name, marking the current one.
	Branches(ctx context.Context) ([]Branch, error)

	// BranchExists checks if a local branch exists.
	BranchExists(ctx context.Context, name string) (bool, error)

	// ResolveRef resolves a branch name, full sha, or abbreviated sha to a
	// full commit sha. Returns ErrRefNotFound for unknown refs and
	// ErrAmbiguousRef when an abbreviation matches more than one object.
	ResolveRef(ctx context.Context, ref string) (string, error)
}

// Engine selects the git engine implementation backing a Runner.
type Engine string

// Engine constants.
const (
	// EngineCLI runs the git binary, one process per logical transaction.
	EngineCLI Engine = "cli"
	// EngineNative uses go-git without an external process.
	EngineNative Engine = "native"
)

// ParseEngine validates an engine name.
func ParseEngine(s string) (Engine, error) {
	switch Engine(strings.ToLower(s)) {
	case EngineCLI:
		return EngineCLI, nil
	case EngineNative:
		return EngineNative, nil
	default:
		return "", gberrors.Wrapf(gberrors.ErrUnknownEngine, "engine %q", s)
	}
}

// Open opens the repository at repoPath with the selected engine.
// Returns ErrNotGitRepo if the path has no git metadata.
func Open(ctx context.Context, repoPath string, engine Engine) (Runner, error) {
	if repoPath == "" {
		return nil, fmt.Errorf("repository path cannot be empty: %w", gberrors.ErrEmptyValue)
	}

	switch engine {
	case EngineNative:
		return openNativeRunner(ctx, repoPath)
	case EngineCLI:
		return openCLIRunner(ctx, repoPath)
	default:
		return nil, gberrors.Wrapf(gberrors.ErrUnknownEngine, "engine %q", string(engine))
	}
}

// IsInitialized reports whether repoPath contains git metadata.
// The check is a plain directory probe so it works for both engines and for
// paths that do not exist at all.
func IsInitialized(repoPath string) bool {
	info, err := os.Stat(filepath.Join(repoPath, ".git"))
	if err != nil {
		return false
	}
	// A .git file (worktree/submodule pointer) also counts as initialized.
	return info.IsDir() || info.Mode().IsRegular()
}
