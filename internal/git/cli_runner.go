// Package git provides Git repository access for gitbridge.
// This file implements the CLIRunner which wraps git CLI commands.
package git

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mrz1836/gitbridge/internal/ctxutil"
	gberrors "github.com/mrz1836/gitbridge/internal/errors"
)

// Field and record separators for machine-readable log output.
const (
	logFieldSep  = "\x1f"
	logRecordSep = "\x1e"
)

// CLIRunner implements Runner using the git CLI. Every method spawns its own
// git process, so each call observes the repository's latest on-disk state.
type CLIRunner struct {
	workDir string // Working directory for git commands
}

// Ensure CLIRunner implements Runner.
var _ Runner = (*CLIRunner)(nil)

// openCLIRunner creates a CLIRunner for the given repository path.
// Returns ErrNotGitRepo if the directory is not a git repository.
func openCLIRunner(ctx context.Context, workDir string) (*CLIRunner, error) {
	r := &CLIRunner{workDir: workDir}

	// Verify this is a git repository
	if _, err := r.run(ctx, "rev-parse", "--git-dir"); err != nil {
		return nil, fmt.Errorf("%w: %w", gberrors.ErrNotGitRepo, err)
	}

	return r, nil
}

// Status returns the current working tree status.
func (r *CLIRunner) Status(ctx context.Context) (*Status, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	// Get porcelain status for parsing
	output, err := r.run(ctx, "status", "--porcelain", "-uall", "--branch")
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	return parsePorcelainStatus(output), nil
}

// StageAll stages all tracked and untracked changes.
func (r *CLIRunner) StageAll(ctx context.Context) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if _, err := r.run(ctx, "add", "-A"); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}

	return nil
}

// Commit creates a commit from the index and returns the new commit sha.
// Returns ErrNoChanges when the index matches HEAD.
func (r *CLIRunner) Commit(ctx context.Context, message string) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}

	if message == "" {
		return "", fmt.Errorf("commit message cannot be empty: %w", gberrors.ErrEmptyValue)
	}

	// --cleanup=strip removes trailing whitespace and surrounding blank lines
	if _, err := r.run(ctx, "commit", "-m", message, "--cleanup=strip"); err != nil {
		if stderrors.Is(err, gberrors.ErrNoChanges) {
			return "", gberrors.ErrNoChanges
		}
		return "", fmt.Errorf("failed to commit: %w", err)
	}

	sha, err := r.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to read new HEAD: %w", err)
	}

	return sha, nil
}

// Log returns up to limit commits reachable from ref, newest first.
func (r *CLIRunner) Log(ctx context.Context, ref string, limit int) ([]Commit, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	if ref == "" {
		ref = "HEAD"
	}

	format := "%H" + logFieldSep + "%an" + logFieldSep + "%ae" + logFieldSep + "%aI" + logFieldSep + "%B" + logRecordSep
	output, err := runCommandRaw(ctx, r.workDir,
		"log", ref, fmt.Sprintf("--max-count=%d", limit), "--pretty=format:"+format)
	if err != nil {
		return nil, fmt.Errorf("failed to read log for %q: %w", ref, err)
	}

	return parseLogRecords(output)
}

// Reset moves the current branch pointer to target under the given mode and
// returns the new HEAD sha. The target must be a resolved full sha.
func (r *CLIRunner) Reset(ctx context.Context, target string, mode ResetMode) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}

	if _, err := r.run(ctx, "reset", "--"+string(mode), target); err != nil {
		return "", fmt.Errorf("failed to reset to %s: %w", ShortSHA(target), err)
	}

	sha, err := r.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to read new HEAD: %w", err)
	}

	return sha, nil
}

// Diff compares two commits and returns raw per-file deltas.
func (r *CLIRunner) Diff(ctx context.Context, from, to string) ([]FileDelta, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	// -M enables rename detection so moved files surface as a single delta.
	patch, err := runCommandRaw(ctx, r.workDir, "diff", "-M", "--no-color", from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to diff %s..%s: %w", from, to, err)
	}

	return ParsePatch(patch), nil
}

// CreateBranch creates a branch pointing at fromRef without switching to it.
func (r *CLIRunner) CreateBranch(ctx context.Context, name, fromRef string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	if name == "" {
		return fmt.Errorf("branch name cannot be empty: %w", gberrors.ErrEmptyValue)
	}

	exists, err := r.BranchExists(ctx, name)
	if err != nil {
		return fmt.Errorf("checking branch existence: %w", err)
	}
	if exists {
		return fmt.Errorf("branch %q already exists: %w", name, gberrors.ErrBranchExists)
	}

	args := []string{"branch", name}
	if fromRef != "" {
		args = append(args, fromRef)
	}

	if _, err = r.run(ctx, args...); err != nil {
		return fmt.Errorf("failed to create branch %q: %w", name, err)
	}

	return nil
}

// SwitchBranch checks out an existing branch.
func (r *CLIRunner) SwitchBranch(ctx context.Context, name string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	exists, err := r.BranchExists(ctx, name)
	if err != nil {
		return fmt.Errorf("checking branch existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("branch %q: %w", name, gberrors.ErrBranchNotFound)
	}

	if _, err = r.run(ctx, "checkout", name); err != nil {
		return fmt.Errorf("failed to switch to branch %q: %w", name, err)
	}

	return nil
}

// Branches lists local branches ordered by name.
func (r *CLIRunner) Branches(ctx context.Context) ([]Branch, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	output, err := r.run(ctx, "for-each-ref", "refs/heads",
		"--sort=refname", "--format=%(HEAD)%09%(refname:short)%09%(objectname)%09%(subject)")
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}

	return parseBranchRefs(output), nil
}

// BranchExists checks if a local branch exists.
func (r *CLIRunner) BranchExists(ctx context.Context, name string) (bool, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return false, err
	}

	_, err := r.run(ctx, "show-ref", "--verify", "refs/heads/"+name)
	if err != nil {
		// Exit code 1 or "not a valid ref" means ref not found, which is expected
		errStr := err.Error()
		if stderrors.Is(err, gberrors.ErrRefNotFound) || strings.Contains(errStr, "exit status 1") {
			return false, nil
		}
		return false, fmt.Errorf("failed to check branch existence: %w", err)
	}
	return true, nil
}

// ResolveRef resolves a branch name, full sha, or abbreviated sha to a full
// commit sha.
func (r *CLIRunner) ResolveRef(ctx context.Context, ref string) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}

	if ref == "" {
		return "", fmt.Errorf("ref cannot be empty: %w", gberrors.ErrEmptyValue)
	}

	sha, err := r.run(ctx, "rev-parse", "--verify", ref+"^{commit}")
	if err != nil {
		if stderrors.Is(err, gberrors.ErrAmbiguousRef) {
			return "", fmt.Errorf("ref %q: %w", ref, gberrors.ErrAmbiguousRef)
		}
		if stderrors.Is(err, gberrors.ErrRefNotFound) || strings.Contains(err.Error(), "exit status 1") {
			return "", fmt.Errorf("ref %q: %w", ref, gberrors.ErrRefNotFound)
		}
		return "", fmt.Errorf("failed to resolve ref %q: %w", ref, err)
	}

	return sha, nil
}

// run executes a git command in the runner's working directory.
func (r *CLIRunner) run(ctx context.Context, args ...string) (string, error) {
	return RunCommand(ctx, r.workDir, args...)
}

// parsePorcelainStatus parses git status --porcelain --branch output.
func parsePorcelainStatus(output string) *Status {
	status := &Status{
		Staged:    []FileChange{},
		Unstaged:  []FileChange{},
		Untracked: []string{},
	}

	for _, line := range strings.Split(output, "\n") {
		if len(line) < 2 {
			continue
		}

		// Branch header: ## branch...upstream, ## No commits yet on branch,
		// or ## HEAD (no branch) when detached.
		if strings.HasPrefix(line, "## ") {
			status.Branch = parseBranchHeader(strings.TrimPrefix(line, "## "))
			continue
		}

		if len(line) < 4 {
			continue
		}
		indexStatus := line[0]
		workTreeStatus := line[1]
		path := strings.TrimSpace(line[3:])

		// Renames are reported as "XY ORIG -> DEST"
		var oldPath string
		if strings.Contains(path, " -> ") {
			parts := strings.SplitN(path, " -> ", 2)
			oldPath = parts[0]
			path = parts[1]
		}

		if indexStatus == '?' && workTreeStatus == '?' {
			status.Untracked = append(status.Untracked, path)
			continue
		}

		if indexStatus != ' ' && indexStatus != '?' {
			status.Staged = append(status.Staged, FileChange{
				Path:    path,
				Status:  ChangeType(string(indexStatus)),
				OldPath: oldPath,
			})
		}

		if workTreeStatus != ' ' && workTreeStatus != '?' {
			status.Unstaged = append(status.Unstaged, FileChange{
				Path:    path,
				Status:  ChangeType(string(workTreeStatus)),
				OldPath: oldPath,
			})
		}
	}

	return status
}

// parseBranchHeader extracts the branch name from a porcelain branch header.
// Returns an empty name for detached HEAD.
func parseBranchHeader(header string) string {
	if strings.HasPrefix(header, "HEAD (no branch)") {
		return ""
	}
	// Unborn branch on a fresh repository
	if rest, ok := strings.CutPrefix(header, "No commits yet on "); ok {
		header = rest
	}
	// Strip upstream tracking info: branch...origin/branch [ahead 1]
	if idx := strings.Index(header, "..."); idx != -1 {
		header = header[:idx]
	}
	return header
}

// parseLogRecords parses delimited git log output into commits.
func parseLogRecords(output string) ([]Commit, error) {
	var commits []Commit

	for _, record := range strings.Split(output, logRecordSep) {
		record = strings.TrimLeft(record, "\n")
		if strings.TrimSpace(record) == "" {
			continue
		}

		fields := strings.SplitN(record, logFieldSep, 5)
		if len(fields) != 5 {
			return nil, fmt.Errorf("unexpected log record %q: %w", record, gberrors.ErrGitOperation)
		}

		ts, err := time.Parse(time.RFC3339, fields[3])
		if err != nil {
			return nil, fmt.Errorf("failed to parse commit timestamp %q: %w", fields[3], err)
		}

		commits = append(commits, Commit{
			SHA:         fields[0],
			ShortSHA:    ShortSHA(fields[0]),
			Message:     strings.TrimSpace(fields[4]),
			Author:      fields[1],
			AuthorEmail: fields[2],
			Timestamp:   ts,
		})
	}

	return commits, nil
}

// parseBranchRefs parses for-each-ref output into branch records.
func parseBranchRefs(output string) []Branch {
	branches := []Branch{}

	for _, line := range strings.Split(output, "\n") {
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 4)
		if len(fields) != 4 {
			continue
		}

		branches = append(branches, Branch{
			Name:        fields[1],
			HeadSHA:     ShortSHA(fields[2]),
			HeadMessage: fields[3],
			IsCurrent:   fields[0] == "*",
		})
	}

	sort.Slice(branches, func(i, j int) bool { return branches[i].Name < branches[j].Name })
	return branches
}
