// Package git provides Git repository access for gitbridge.
// This file implements the Runner interface on go-git, without an
// external git process.
package git

import (
	"context"
	stderrors "errors"
	"sort"
	"strings"
	"time"

	gitlib "github.com/go-git/go-git/v5"
	gitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/utils/merkletrie"

	"github.com/mrz1836/gitbridge/internal/ctxutil"
	gberrors "github.com/mrz1836/gitbridge/internal/errors"
)

// Fallback identity for repositories with no configured user. The commit
// still records a real author so history stays inspectable.
const (
	fallbackAuthorName  = "gitbridge"
	fallbackAuthorEmail = "gitbridge@localhost"
)

// NativeRunner implements Runner using go-git. The repository handle is
// opened once per operation and holds no state beyond the open storer.
type NativeRunner struct {
	repo *gitlib.Repository
}

// openNativeRunner opens the repository at repoPath with go-git.
func openNativeRunner(ctx context.Context, repoPath string) (*NativeRunner, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	repo, err := gitlib.PlainOpen(repoPath)
	if err != nil {
		if stderrors.Is(err, gitlib.ErrRepositoryNotExists) {
			return nil, gberrors.Wrapf(gberrors.ErrNotGitRepo, "path %q", repoPath)
		}
		return nil, gberrors.Wrapf(gberrors.ErrGitOperation, "open repository %q: %v", repoPath, err)
	}

	return &NativeRunner{repo: repo}, nil
}

// Status returns the current working tree status including staged, unstaged,
// and untracked files.
func (r *NativeRunner) Status(ctx context.Context) (*Status, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, gberrors.Wrap(gberrors.ErrGitOperation, "open worktree")
	}

	wtStatus, err := wt.Status()
	if err != nil {
		return nil, gberrors.Wrapf(gberrors.ErrGitOperation, "read status: %v", err)
	}

	status := &Status{
		Branch:    r.currentBranch(),
		Staged:    []FileChange{},
		Unstaged:  []FileChange{},
		Untracked: []string{},
	}

	for path, fs := range wtStatus {
		if fs.Worktree == gitlib.Untracked {
			status.Untracked = append(status.Untracked, path)
			continue
		}
		if fs.Staging != gitlib.Unmodified && fs.Staging != gitlib.Untracked {
			status.Staged = append(status.Staged, FileChange{
				Path:    path,
				Status:  mapStatusCode(fs.Staging),
				OldPath: fs.Extra,
			})
		}
		if fs.Worktree != gitlib.Unmodified {
			status.Unstaged = append(status.Unstaged, FileChange{
				Path:   path,
				Status: mapStatusCode(fs.Worktree),
			})
		}
	}

	// Worktree status iterates a map; order the output so callers see a
	// stable snapshot.
	sort.Slice(status.Staged, func(i, j int) bool { return status.Staged[i].Path < status.Staged[j].Path })
	sort.Slice(status.Unstaged, func(i, j int) bool { return status.Unstaged[i].Path < status.Unstaged[j].Path })
	sort.Strings(status.Untracked)

	return status, nil
}

// StageAll stages every tracked and untracked change.
func (r *NativeRunner) StageAll(ctx context.Context) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return gberrors.Wrap(gberrors.ErrGitOperation, "open worktree")
	}

	if err := wt.AddWithOptions(&gitlib.AddOptions{All: true}); err != nil {
		return gberrors.Wrapf(gberrors.ErrGitOperation, "stage changes: %v", err)
	}
	return nil
}

// Commit creates a commit from the index and returns the new commit sha.
// Returns ErrNoChanges when the index matches HEAD.
func (r *NativeRunner) Commit(ctx context.Context, message string) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return "", gberrors.Wrap(gberrors.ErrGitOperation, "open worktree")
	}

	hash, err := wt.Commit(message, &gitlib.CommitOptions{
		Author: r.signature(),
	})
	if err != nil {
		if stderrors.Is(err, gitlib.ErrEmptyCommit) {
			return "", gberrors.ErrNoChanges
		}
		return "", gberrors.Wrapf(gberrors.ErrGitOperation, "commit: %v", err)
	}

	return hash.String(), nil
}

// Log returns up to limit commits reachable from ref, newest first.
func (r *NativeRunner) Log(ctx context.Context, ref string, limit int) ([]Commit, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	sha, err := r.ResolveRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	iter, err := r.repo.Log(&gitlib.LogOptions{From: plumbing.NewHash(sha)})
	if err != nil {
		return nil, gberrors.Wrapf(gberrors.ErrGitOperation, "read log: %v", err)
	}
	defer iter.Close()

	commits := make([]Commit, 0, limit)
	err = iter.ForEach(func(c *object.Commit) error {
		commits = append(commits, Commit{
			SHA:         c.Hash.String(),
			ShortSHA:    ShortSHA(c.Hash.String()),
			Message:     strings.TrimRight(c.Message, "\n"),
			Author:      c.Author.Name,
			AuthorEmail: c.Author.Email,
			Timestamp:   c.Author.When,
		})
		if len(commits) >= limit {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, gberrors.Wrapf(gberrors.ErrGitOperation, "walk log: %v", err)
	}

	return commits, nil
}

// Reset moves the current branch pointer to target under the given mode and
// returns the new HEAD sha.
func (r *NativeRunner) Reset(ctx context.Context, target string, mode ResetMode) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return "", gberrors.Wrap(gberrors.ErrGitOperation, "open worktree")
	}

	var resetMode gitlib.ResetMode
	switch mode {
	case ResetSoft:
		resetMode = gitlib.SoftReset
	case ResetMixed:
		resetMode = gitlib.MixedReset
	case ResetHard:
		resetMode = gitlib.HardReset
	default:
		return "", gberrors.Wrapf(gberrors.ErrUnknownResetMode, "reset mode %q", string(mode))
	}

	if err := wt.Reset(&gitlib.ResetOptions{
		Commit: plumbing.NewHash(target),
		Mode:   resetMode,
	}); err != nil {
		return "", gberrors.Wrapf(gberrors.ErrGitOperation, "reset to %s: %v", ShortSHA(target), err)
	}

	head, err := r.repo.Head()
	if err != nil {
		return "", gberrors.Wrapf(gberrors.ErrGitOperation, "read head after reset: %v", err)
	}
	return head.Hash().String(), nil
}

// Diff compares two commits and returns per-file deltas with rename detection.
func (r *NativeRunner) Diff(ctx context.Context, from, to string) ([]FileDelta, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	fromTree, err := r.commitTree(from)
	if err != nil {
		return nil, err
	}
	toTree, err := r.commitTree(to)
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTreeWithOptions(ctx, fromTree, toTree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, gberrors.Wrapf(gberrors.ErrGitOperation, "diff trees: %v", err)
	}

	deltas := make([]FileDelta, 0, len(changes))
	for _, change := range changes {
		delta, err := r.changeToDelta(ctx, change)
		if err != nil {
			return nil, err
		}
		deltas = append(deltas, delta)
	}

	return deltas, nil
}

// changeToDelta converts one tree change into a normalized FileDelta.
func (r *NativeRunner) changeToDelta(ctx context.Context, change *object.Change) (FileDelta, error) {
	action, err := change.Action()
	if err != nil {
		return FileDelta{}, gberrors.Wrapf(gberrors.ErrGitOperation, "resolve change action: %v", err)
	}

	delta := FileDelta{Filename: change.To.Name}
	switch action {
	case merkletrie.Insert:
		delta.Status = DeltaAdded
	case merkletrie.Delete:
		delta.Status = DeltaDeleted
		delta.Filename = change.From.Name
	case merkletrie.Modify:
		delta.Status = DeltaModified
		if change.From.Name != change.To.Name {
			delta.Status = DeltaRenamed
			delta.OldPath = change.From.Name
		}
	}

	patch, err := change.PatchContext(ctx)
	if err != nil {
		return FileDelta{}, gberrors.Wrapf(gberrors.ErrGitOperation, "build patch for %s: %v", delta.Filename, err)
	}
	delta.Patch = patch.String()

	// Binary files have no text stats; their counts stay zero.
	for _, stat := range patch.Stats() {
		delta.Additions += stat.Addition
		delta.Deletions += stat.Deletion
	}

	return delta, nil
}

// CreateBranch creates a branch pointing at fromRef without switching to it.
func (r *NativeRunner) CreateBranch(ctx context.Context, name, fromRef string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	exists, err := r.BranchExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return gberrors.Wrapf(gberrors.ErrBranchExists, "branch %q", name)
	}

	if fromRef == "" {
		fromRef = "HEAD"
	}
	sha, err := r.ResolveRef(ctx, fromRef)
	if err != nil {
		return err
	}

	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), plumbing.NewHash(sha))
	if err := r.repo.Storer.SetReference(ref); err != nil {
		return gberrors.Wrapf(gberrors.ErrGitOperation, "create branch %q: %v", name, err)
	}
	return nil
}

// SwitchBranch checks out an existing branch.
func (r *NativeRunner) SwitchBranch(ctx context.Context, name string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	exists, err := r.BranchExists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return gberrors.Wrapf(gberrors.ErrBranchNotFound, "branch %q", name)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return gberrors.Wrap(gberrors.ErrGitOperation, "open worktree")
	}

	if err := wt.Checkout(&gitlib.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Keep:   true,
	}); err != nil {
		// go-git emits the same dirty-worktree diagnostics as the CLI.
		sentinel := ClassifyOutput(err.Error())
		return gberrors.Wrapf(sentinel, "switch to %q: %v", name, err)
	}
	return nil
}

// Branches lists local branches ordered by name, marking the current one.
func (r *NativeRunner) Branches(ctx context.Context) ([]Branch, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	current := r.currentBranch()

	iter, err := r.repo.Branches()
	if err != nil {
		return nil, gberrors.Wrapf(gberrors.ErrGitOperation, "list branches: %v", err)
	}
	defer iter.Close()

	branches := []Branch{}
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		branch := Branch{
			Name:      name,
			HeadSHA:   ShortSHA(ref.Hash().String()),
			IsCurrent: name == current,
		}
		if commit, cerr := r.repo.CommitObject(ref.Hash()); cerr == nil {
			branch.HeadMessage = firstLine(commit.Message)
		}
		branches = append(branches, branch)
		return nil
	})
	if err != nil {
		return nil, gberrors.Wrapf(gberrors.ErrGitOperation, "walk branches: %v", err)
	}

	sort.Slice(branches, func(i, j int) bool { return branches[i].Name < branches[j].Name })
	return branches, nil
}

// BranchExists checks if a local branch exists.
func (r *NativeRunner) BranchExists(ctx context.Context, name string) (bool, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return false, err
	}

	_, err := r.repo.Reference(plumbing.NewBranchReferenceName(name), false)
	if err != nil {
		if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
			return false, nil
		}
		return false, gberrors.Wrapf(gberrors.ErrGitOperation, "check branch %q: %v", name, err)
	}
	return true, nil
}

// ResolveRef resolves a branch name, full sha, or abbreviated sha to a full
// commit sha.
func (r *NativeRunner) ResolveRef(ctx context.Context, ref string) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}

	// Revision resolution silently picks a match for abbreviated hashes, so
	// scan for prefix collisions first to keep abbreviation errors honest.
	if isHexPrefix(ref) && len(ref) < 40 {
		sha, err := r.resolveAbbrev(ref)
		if err != nil || sha != "" {
			return sha, err
		}
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return "", gberrors.Wrapf(gberrors.ErrRefNotFound, "ref %q", ref)
	}
	if _, err := r.repo.CommitObject(*hash); err != nil {
		return "", gberrors.Wrapf(gberrors.ErrRefNotFound, "ref %q does not point at a commit", ref)
	}

	return hash.String(), nil
}

// resolveAbbrev resolves an abbreviated hex sha by scanning commit objects.
// Returns ("", nil) when no commit matches, so the caller can fall through to
// revision resolution (the prefix may still name a branch).
func (r *NativeRunner) resolveAbbrev(prefix string) (string, error) {
	iter, err := r.repo.CommitObjects()
	if err != nil {
		return "", gberrors.Wrapf(gberrors.ErrGitOperation, "scan commits: %v", err)
	}
	defer iter.Close()

	lower := strings.ToLower(prefix)
	matches := []string{}
	err = iter.ForEach(func(c *object.Commit) error {
		if strings.HasPrefix(c.Hash.String(), lower) {
			matches = append(matches, c.Hash.String())
			if len(matches) > 1 {
				return storer.ErrStop
			}
		}
		return nil
	})
	if err != nil {
		return "", gberrors.Wrapf(gberrors.ErrGitOperation, "scan commits: %v", err)
	}

	switch len(matches) {
	case 0:
		return "", nil
	case 1:
		return matches[0], nil
	default:
		return "", gberrors.Wrapf(gberrors.ErrAmbiguousRef, "short sha %q matches multiple commits", prefix)
	}
}

// currentBranch returns the checked-out branch name, or empty for detached
// HEAD. Works on unborn branches by reading the symbolic HEAD directly.
func (r *NativeRunner) currentBranch() string {
	head, err := r.repo.Head()
	if err == nil {
		if head.Name().IsBranch() {
			return head.Name().Short()
		}
		return ""
	}

	// Unborn branch: HEAD exists only as a symbolic reference.
	ref, err := r.repo.Reference(plumbing.HEAD, false)
	if err != nil || ref.Type() != plumbing.SymbolicReference {
		return ""
	}
	return ref.Target().Short()
}

// commitTree loads the tree for a resolved commit sha.
func (r *NativeRunner) commitTree(sha string) (*object.Tree, error) {
	commit, err := r.repo.CommitObject(plumbing.NewHash(sha))
	if err != nil {
		return nil, gberrors.Wrapf(gberrors.ErrRefNotFound, "commit %q", ShortSHA(sha))
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, gberrors.Wrapf(gberrors.ErrGitOperation, "load tree for %s: %v", ShortSHA(sha), err)
	}
	return tree, nil
}

// signature builds the commit author, preferring the repository and global
// git configuration and falling back to the service identity.
func (r *NativeRunner) signature() *object.Signature {
	name, email := fallbackAuthorName, fallbackAuthorEmail
	if cfg, err := r.repo.ConfigScoped(gitcfg.SystemScope); err == nil {
		if cfg.User.Name != "" {
			name = cfg.User.Name
		}
		if cfg.User.Email != "" {
			email = cfg.User.Email
		}
	}
	return &object.Signature{Name: name, Email: email, When: time.Now()}
}

// mapStatusCode converts a go-git status code into a ChangeType.
func mapStatusCode(code gitlib.StatusCode) ChangeType {
	switch code {
	case gitlib.Added:
		return ChangeAdded
	case gitlib.Deleted:
		return ChangeDeleted
	case gitlib.Renamed:
		return ChangeRenamed
	case gitlib.Copied:
		return ChangeCopied
	case gitlib.UpdatedButUnmerged:
		return ChangeUnmerged
	default:
		return ChangeModified
	}
}

// firstLine returns the subject line of a commit message.
func firstLine(message string) string {
	line, _, _ := strings.Cut(message, "\n")
	return strings.TrimSpace(line)
}

// isHexPrefix reports whether s could be an abbreviated object id.
func isHexPrefix(s string) bool {
	if len(s) < 4 || len(s) > 40 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
