// Package tools implements the operation catalog and dispatcher.
// This file routes named operations to handlers over the git Runner.
package tools

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/gitbridge/internal/constants"
	gberrors "github.com/mrz1836/gitbridge/internal/errors"
	"github.com/mrz1836/gitbridge/internal/git"
)

// Options configures a Dispatcher.
type Options struct {
	Logger          zerolog.Logger
	DefaultRepoPath string            // Used when a request omits repo_path
	Engine          git.Engine        // Git engine backing every operation
	MessageStyle    git.MessageStyle  // Default style for generate_commit_message
	MessageMaxFiles int               // File names listed before eliding
}

// Dispatcher validates requests against the catalog and executes them.
// It holds configuration only: repository handles are opened per call and
// discarded on every exit path, so no state survives between operations.
type Dispatcher struct {
	log             zerolog.Logger
	defaultRepoPath string
	engine          git.Engine
	style           git.MessageStyle
	maxFiles        int

	// Seams for tests; production wiring uses the git package directly.
	openRepo    func(ctx context.Context, path string, engine git.Engine) (git.Runner, error)
	ensureRepo  func(ctx context.Context, path string, engine git.Engine) (bool, error)
	initRepo    func(ctx context.Context, path string, engine git.Engine, initialCommit bool) (*git.InitResult, error)
	initialized func(path string) bool
}

// NewDispatcher creates a Dispatcher with the given options.
func NewDispatcher(opts Options) *Dispatcher {
	if opts.Engine == "" {
		opts.Engine = git.EngineCLI
	}
	if opts.MessageStyle == "" {
		opts.MessageStyle = git.StyleConventional
	}
	if opts.MessageMaxFiles <= 0 {
		opts.MessageMaxFiles = constants.MessageSummaryMaxFiles
	}

	return &Dispatcher{
		log:             opts.Logger,
		defaultRepoPath: opts.DefaultRepoPath,
		engine:          opts.Engine,
		style:           opts.MessageStyle,
		maxFiles:        opts.MessageMaxFiles,
		openRepo:        git.Open,
		ensureRepo:      git.EnsureRepository,
		initRepo:        git.InitRepository,
		initialized:     git.IsInitialized,
	}
}

// Dispatch executes the named operation with the given raw arguments and
// returns its result envelope. Dispatch never returns a Go error: every
// failure is classified and encoded in the envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, raw map[string]any) *Result {
	start := time.Now()

	spec, ok := FindOp(name)
	if !ok {
		return failure(gberrors.Wrapf(gberrors.ErrUnknownOperation, "operation %q", name))
	}

	res := d.invoke(ctx, spec, raw)

	evt := d.log.Debug().
		Str("operation", name).
		Bool("ok", res.OK).
		Dur("duration", time.Since(start))
	if res.Error != nil {
		evt = evt.Str("error_kind", string(res.Error.Kind))
	}
	evt.Msg("operation dispatched")

	return res
}

// invoke decodes arguments and runs the matching handler.
func (d *Dispatcher) invoke(ctx context.Context, spec OpSpec, raw map[string]any) *Result {
	switch spec.Name {
	case OpInitializeRepo:
		var args initializeRepoArgs
		if err := decodeArgs(spec, raw, &args); err != nil {
			return failure(err)
		}
		return d.initializeRepo(ctx, args)
	case OpGetRepoStatus:
		var args repoArgs
		if err := decodeArgs(spec, raw, &args); err != nil {
			return failure(err)
		}
		return d.getRepoStatus(ctx, args)
	case OpCommitAllChanges:
		var args commitAllArgs
		if err := decodeArgs(spec, raw, &args); err != nil {
			return failure(err)
		}
		return d.commitAllChanges(ctx, args)
	case OpListCommits:
		var args listCommitsArgs
		if err := decodeArgs(spec, raw, &args); err != nil {
			return failure(err)
		}
		return d.listCommits(ctx, args)
	case OpRollbackToCommit:
		var args rollbackArgs
		if err := decodeArgs(spec, raw, &args); err != nil {
			return failure(err)
		}
		return d.rollbackToCommit(ctx, args)
	case OpCompareCommits:
		var args compareArgs
		if err := decodeArgs(spec, raw, &args); err != nil {
			return failure(err)
		}
		return d.compareCommits(ctx, args)
	case OpCreateBranch:
		var args createBranchArgs
		if err := decodeArgs(spec, raw, &args); err != nil {
			return failure(err)
		}
		return d.createBranch(ctx, args)
	case OpSwitchBranch:
		var args switchBranchArgs
		if err := decodeArgs(spec, raw, &args); err != nil {
			return failure(err)
		}
		return d.switchBranch(ctx, args)
	case OpListBranches:
		var args repoArgs
		if err := decodeArgs(spec, raw, &args); err != nil {
			return failure(err)
		}
		return d.listBranches(ctx, args)
	case OpGenerateCommitMessage:
		var args generateMessageArgs
		if err := decodeArgs(spec, raw, &args); err != nil {
			return failure(err)
		}
		return d.generateCommitMessage(ctx, args)
	default:
		return failure(gberrors.Wrapf(gberrors.ErrUnknownOperation, "operation %q has no handler", spec.Name))
	}
}

// resolveRepoPath picks the request path or the configured default and makes
// it absolute. Relative paths are resolved against the server's working
// directory, not the caller's.
func (d *Dispatcher) resolveRepoPath(argPath string) (string, error) {
	path := strings.TrimSpace(argPath)
	if path == "" {
		path = d.defaultRepoPath
	}
	if path == "" {
		return "", gberrors.Wrap(gberrors.ErrInvalidArgument,
			"repo_path is required when no default repository path is configured")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", gberrors.Wrapf(gberrors.ErrInvalidArgument, "repo_path %q: %v", path, err)
	}
	return abs, nil
}

func (d *Dispatcher) initializeRepo(ctx context.Context, args initializeRepoArgs) *Result {
	path, err := d.resolveRepoPath(args.RepoPath)
	if err != nil {
		return failure(err)
	}

	initialCommit := true
	if args.InitialCommit != nil {
		initialCommit = *args.InitialCommit
	}

	result, err := d.initRepo(ctx, path, d.engine, initialCommit)
	if err != nil {
		return failure(err)
	}

	payload := map[string]any{
		"repo_path":           result.Path,
		"branch":              result.Branch,
		"already_initialized": result.AlreadyExisted,
	}
	if result.AlreadyExisted {
		payload["message"] = "repository already initialized"
		return noOp(payload)
	}
	if result.InitialCommit != "" {
		payload["initial_commit_sha"] = result.InitialCommit
	}
	payload["message"] = "repository initialized"
	return success(payload)
}

func (d *Dispatcher) getRepoStatus(ctx context.Context, args repoArgs) *Result {
	path, err := d.resolveRepoPath(args.RepoPath)
	if err != nil {
		return failure(err)
	}

	// Read-only contract: an uninitialized path is an answer, not an error.
	if !d.initialized(path) {
		return success(map[string]any{
			"repo_path":      path,
			"is_initialized": false,
			"has_changes":    false,
		})
	}

	runner, err := d.openRepo(ctx, path, d.engine)
	if err != nil {
		return failure(err)
	}
	status, err := runner.Status(ctx)
	if err != nil {
		return failure(err)
	}

	return success(map[string]any{
		"repo_path":       path,
		"is_initialized":  true,
		"current_branch":  status.Branch,
		"has_changes":     !status.IsClean(),
		"staged_files":    changePaths(status.Staged),
		"modified_files":  changePaths(status.Unstaged),
		"untracked_files": status.Untracked,
	})
}

func (d *Dispatcher) commitAllChanges(ctx context.Context, args commitAllArgs) *Result {
	path, err := d.resolveRepoPath(args.RepoPath)
	if err != nil {
		return failure(err)
	}
	message := strings.TrimSpace(args.Message)
	if message == "" {
		return failure(gberrors.Wrap(gberrors.ErrInvalidArgument, "message must not be empty"))
	}

	if _, err := d.ensureRepo(ctx, path, d.engine); err != nil {
		return failure(err)
	}
	runner, err := d.openRepo(ctx, path, d.engine)
	if err != nil {
		return failure(err)
	}

	if err := runner.StageAll(ctx); err != nil {
		return failure(err)
	}

	sha, err := runner.Commit(ctx, message)
	if err != nil {
		if stderrors.Is(err, gberrors.ErrNoChanges) {
			return noOp(map[string]any{
				"repo_path": path,
				"message":   "nothing to commit, working tree clean",
			})
		}
		// Staging already ran; the caller needs to know the index may have moved.
		return failure(gberrors.Wrap(err, "commit failed after staging completed"))
	}

	status, err := runner.Status(ctx)
	if err != nil {
		return failure(err)
	}

	return success(map[string]any{
		"repo_path": path,
		"sha":       sha,
		"short_sha": git.ShortSHA(sha),
		"branch":    status.Branch,
		"message":   message,
	})
}

func (d *Dispatcher) listCommits(ctx context.Context, args listCommitsArgs) *Result {
	path, err := d.resolveRepoPath(args.RepoPath)
	if err != nil {
		return failure(err)
	}

	limit := constants.DefaultLogLimit
	if args.Limit != nil {
		limit = *args.Limit
	}
	if limit < 1 {
		return failure(gberrors.Wrapf(gberrors.ErrInvalidArgument, "limit must be at least 1, got %d", limit))
	}
	if limit > constants.MaxLogLimit {
		limit = constants.MaxLogLimit
	}

	branch := args.Branch
	if branch == "" {
		branch = "HEAD"
	}

	if !d.initialized(path) {
		return failure(gberrors.Wrapf(gberrors.ErrNotInitialized, "path %q", path))
	}
	runner, err := d.openRepo(ctx, path, d.engine)
	if err != nil {
		return failure(err)
	}

	commits, err := runner.Log(ctx, branch, limit)
	if err != nil {
		return failure(err)
	}

	encoded := make([]map[string]any, len(commits))
	for i, c := range commits {
		encoded[i] = commitPayload(c)
	}

	return success(map[string]any{
		"repo_path": path,
		"branch":    branch,
		"count":     len(commits),
		"commits":   encoded,
	})
}

func (d *Dispatcher) rollbackToCommit(ctx context.Context, args rollbackArgs) *Result {
	path, err := d.resolveRepoPath(args.RepoPath)
	if err != nil {
		return failure(err)
	}
	if strings.TrimSpace(args.CommitSha) == "" {
		return failure(gberrors.Wrap(gberrors.ErrInvalidArgument, "commit_sha must not be empty"))
	}

	mode := git.ResetSoft
	if args.Mode != "" {
		mode, err = git.ParseResetMode(args.Mode)
		if err != nil {
			return failure(err)
		}
	}

	if _, err := d.ensureRepo(ctx, path, d.engine); err != nil {
		return failure(err)
	}
	runner, err := d.openRepo(ctx, path, d.engine)
	if err != nil {
		return failure(err)
	}

	// Rollback moves the current branch; with a detached HEAD there is no
	// branch to move.
	st, err := runner.Status(ctx)
	if err != nil {
		return failure(err)
	}
	if st.Branch == "" {
		return failure(gberrors.Wrap(gberrors.ErrDetachedHead, "rollback requires a checked-out branch"))
	}

	// Explicit resolution step: abbreviated shas are accepted, ambiguous
	// abbreviations are rejected before anything moves.
	target, err := runner.ResolveRef(ctx, args.CommitSha)
	if err != nil {
		return failure(err)
	}

	previous, err := runner.ResolveRef(ctx, "HEAD")
	if err != nil {
		return failure(err)
	}

	newHead, err := runner.Reset(ctx, target, mode)
	if err != nil {
		return failure(err)
	}

	return success(map[string]any{
		"repo_path":     path,
		"mode":          string(mode),
		"resolved_sha":  target,
		"previous_head": previous,
		"new_head":      newHead,
		"short_sha":     git.ShortSHA(newHead),
	})
}

func (d *Dispatcher) compareCommits(ctx context.Context, args compareArgs) *Result {
	path, err := d.resolveRepoPath(args.RepoPath)
	if err != nil {
		return failure(err)
	}
	if strings.TrimSpace(args.FromCommit) == "" || strings.TrimSpace(args.ToCommit) == "" {
		return failure(gberrors.Wrap(gberrors.ErrInvalidArgument, "from_commit and to_commit must not be empty"))
	}

	if !d.initialized(path) {
		return failure(gberrors.Wrapf(gberrors.ErrNotInitialized, "path %q", path))
	}
	runner, err := d.openRepo(ctx, path, d.engine)
	if err != nil {
		return failure(err)
	}

	from, err := runner.ResolveRef(ctx, args.FromCommit)
	if err != nil {
		return failure(err)
	}
	to, err := runner.ResolveRef(ctx, args.ToCommit)
	if err != nil {
		return failure(err)
	}

	deltas, err := runner.Diff(ctx, from, to)
	if err != nil {
		return failure(err)
	}
	cmp := git.Summarize(args.FromCommit, args.ToCommit, deltas)

	files := make([]map[string]any, len(cmp.Files))
	for i, f := range cmp.Files {
		files[i] = deltaPayload(f)
	}

	return success(map[string]any{
		"repo_path":       path,
		"from_commit":     cmp.FromCommit,
		"to_commit":       cmp.ToCommit,
		"files":           files,
		"total_additions": cmp.TotalAdditions,
		"total_deletions": cmp.TotalDeletions,
		"summary":         cmp.Summary,
	})
}

func (d *Dispatcher) createBranch(ctx context.Context, args createBranchArgs) *Result {
	path, err := d.resolveRepoPath(args.RepoPath)
	if err != nil {
		return failure(err)
	}
	name := strings.TrimSpace(args.BranchName)
	if name == "" {
		return failure(gberrors.Wrap(gberrors.ErrInvalidArgument, "branch_name must not be empty"))
	}

	if _, err := d.ensureRepo(ctx, path, d.engine); err != nil {
		return failure(err)
	}
	runner, err := d.openRepo(ctx, path, d.engine)
	if err != nil {
		return failure(err)
	}

	if err := runner.CreateBranch(ctx, name, args.FromRef); err != nil {
		return failure(err)
	}

	fromRef := args.FromRef
	if fromRef == "" {
		fromRef = "HEAD"
	}
	return success(map[string]any{
		"repo_path":   path,
		"branch_name": name,
		"from_ref":    fromRef,
	})
}

func (d *Dispatcher) switchBranch(ctx context.Context, args switchBranchArgs) *Result {
	path, err := d.resolveRepoPath(args.RepoPath)
	if err != nil {
		return failure(err)
	}
	name := strings.TrimSpace(args.BranchName)
	if name == "" {
		return failure(gberrors.Wrap(gberrors.ErrInvalidArgument, "branch_name must not be empty"))
	}

	if _, err := d.ensureRepo(ctx, path, d.engine); err != nil {
		return failure(err)
	}
	runner, err := d.openRepo(ctx, path, d.engine)
	if err != nil {
		return failure(err)
	}

	status, err := runner.Status(ctx)
	if err != nil {
		return failure(err)
	}
	if status.Branch == name {
		return noOp(map[string]any{
			"repo_path":   path,
			"branch_name": name,
			"message":     "already on branch " + name,
		})
	}
	// Untracked files carry over; staged or modified tracked files block the
	// switch unless the caller forces it.
	if status.HasModifications() && !args.Force {
		return failure(gberrors.Wrapf(gberrors.ErrDirtyWorktree,
			"uncommitted changes on %q; commit them or pass force=true", status.Branch))
	}

	if err := runner.SwitchBranch(ctx, name); err != nil {
		return failure(err)
	}

	return success(map[string]any{
		"repo_path":       path,
		"branch_name":     name,
		"previous_branch": status.Branch,
		"forced":          args.Force,
	})
}

func (d *Dispatcher) listBranches(ctx context.Context, args repoArgs) *Result {
	path, err := d.resolveRepoPath(args.RepoPath)
	if err != nil {
		return failure(err)
	}

	if !d.initialized(path) {
		return failure(gberrors.Wrapf(gberrors.ErrNotInitialized, "path %q", path))
	}
	runner, err := d.openRepo(ctx, path, d.engine)
	if err != nil {
		return failure(err)
	}

	branches, err := runner.Branches(ctx)
	if err != nil {
		return failure(err)
	}

	encoded := make([]map[string]any, len(branches))
	current := ""
	for i, b := range branches {
		encoded[i] = map[string]any{
			"name":         b.Name,
			"head_sha":     b.HeadSHA,
			"head_message": b.HeadMessage,
			"is_current":   b.IsCurrent,
		}
		if b.IsCurrent {
			current = b.Name
		}
	}

	return success(map[string]any{
		"repo_path": path,
		"count":     len(branches),
		"current":   current,
		"branches":  encoded,
	})
}

func (d *Dispatcher) generateCommitMessage(ctx context.Context, args generateMessageArgs) *Result {
	path, err := d.resolveRepoPath(args.RepoPath)
	if err != nil {
		return failure(err)
	}

	style := d.style
	if args.Style != "" {
		style, err = git.ParseMessageStyle(args.Style)
		if err != nil {
			return failure(err)
		}
	}

	if !d.initialized(path) {
		return failure(gberrors.Wrapf(gberrors.ErrNotInitialized, "path %q", path))
	}
	runner, err := d.openRepo(ctx, path, d.engine)
	if err != nil {
		return failure(err)
	}
	status, err := runner.Status(ctx)
	if err != nil {
		return failure(err)
	}

	suggestion, err := git.SynthesizeMessage(status, style, d.maxFiles)
	if err != nil {
		if stderrors.Is(err, gberrors.ErrNoChanges) {
			return noOp(map[string]any{
				"repo_path":      path,
				"commit_message": "",
				"details":        []string{"No changes detected"},
			})
		}
		return failure(err)
	}

	return success(map[string]any{
		"repo_path":      path,
		"style":          string(style),
		"commit_message": suggestion.Message,
		"details":        suggestion.Details,
	})
}

// commitPayload encodes a commit for the wire. Timestamps are RFC3339.
func commitPayload(c git.Commit) map[string]any {
	return map[string]any{
		"sha":          c.SHA,
		"short_sha":    c.ShortSHA,
		"message":      c.Message,
		"author":       c.Author,
		"author_email": c.AuthorEmail,
		"timestamp":    c.Timestamp.Format(time.RFC3339),
	}
}

// deltaPayload encodes a per-file delta for the wire. Renamed files carry
// both the new path and old_path.
func deltaPayload(f git.FileDelta) map[string]any {
	payload := map[string]any{
		"filename":  f.Filename,
		"status":    string(f.Status),
		"additions": f.Additions,
		"deletions": f.Deletions,
		"patch":     f.Patch,
	}
	if f.OldPath != "" {
		payload["old_path"] = f.OldPath
	}
	return payload
}

// changePaths extracts file paths from a change list.
func changePaths(changes []git.FileChange) []string {
	paths := make([]string, len(changes))
	for i, fc := range changes {
		paths[i] = fc.Path
	}
	return paths
}
