// Package git provides Git repository access for gitbridge.
// This file defines types shared by the Runner implementations.
package git

import (
	"strings"
	"time"

	gberrors "github.com/mrz1836/gitbridge/internal/errors"
)

// Status represents the current state of a Git working tree.
// It is derived fresh on every call and never cached across operations.
type Status struct {
	Branch    string       // Current branch name (empty in detached HEAD state)
	Staged    []FileChange // Files staged for commit
	Unstaged  []FileChange // Modified but not staged
	Untracked []string     // Untracked files
}

// FileChange represents a changed file in the working tree.
type FileChange struct {
	Path    string     // File path relative to repo root
	Status  ChangeType // Type of change (Added, Modified, Deleted, etc.)
	OldPath string     // For renamed files, the original path
}

// ChangeType represents the type of change for a file.
type ChangeType string

// Change type constants for git status.
const (
	ChangeAdded    ChangeType = "A"
	ChangeModified ChangeType = "M"
	ChangeDeleted  ChangeType = "D"
	ChangeRenamed  ChangeType = "R"
	ChangeCopied   ChangeType = "C"
	ChangeUnmerged ChangeType = "U"
)

// IsClean returns true if the working tree has no changes.
func (s *Status) IsClean() bool {
	return len(s.Staged) == 0 && len(s.Unstaged) == 0 && len(s.Untracked) == 0
}

// HasModifications returns true if there are staged or unstaged changes to
// tracked files. Untracked files do not count: they carry over on a branch
// switch without being overwritten.
func (s *Status) HasModifications() bool {
	return len(s.Staged) > 0 || len(s.Unstaged) > 0
}

// PendingChanges returns every pending change in the working tree as a single
// change list: staged entries first, then unstaged, then untracked (typed as
// added). Paths appearing both staged and unstaged are reported once.
func (s *Status) PendingChanges() []FileChange {
	seen := make(map[string]bool, len(s.Staged)+len(s.Unstaged)+len(s.Untracked))
	changes := make([]FileChange, 0, len(s.Staged)+len(s.Unstaged)+len(s.Untracked))

	for _, fc := range s.Staged {
		if !seen[fc.Path] {
			seen[fc.Path] = true
			changes = append(changes, fc)
		}
	}
	for _, fc := range s.Unstaged {
		if !seen[fc.Path] {
			seen[fc.Path] = true
			changes = append(changes, fc)
		}
	}
	for _, path := range s.Untracked {
		if !seen[path] {
			seen[path] = true
			changes = append(changes, FileChange{Path: path, Status: ChangeAdded})
		}
	}
	return changes
}

// Commit contains information about a single commit.
type Commit struct {
	SHA         string    // Full 40-hex commit hash
	ShortSHA    string    // 7-hex prefix of SHA
	Message     string    // Commit message, trailing whitespace stripped
	Author      string    // Author name
	AuthorEmail string    // Author email
	Timestamp   time.Time // Author timestamp
}

// Branch contains information about a local branch head.
type Branch struct {
	Name        string // Branch name without refs/heads/ prefix
	HeadSHA     string // Abbreviated head commit hash
	HeadMessage string // First line of the head commit message
	IsCurrent   bool   // True for the checked-out branch
}

// DeltaStatus describes how a file changed between two commits.
type DeltaStatus string

// Delta status constants for commit comparisons.
const (
	DeltaAdded    DeltaStatus = "added"
	DeltaModified DeltaStatus = "modified"
	DeltaDeleted  DeltaStatus = "deleted"
	DeltaRenamed  DeltaStatus = "renamed"
)

// FileDelta is a normalized per-file record of a two-commit comparison.
// Additions and deletions are exact counts of +/- lines in the patch.
// For renamed files Filename holds the new path and OldPath the original.
type FileDelta struct {
	Filename  string      // Path of the file (new path for renames)
	OldPath   string      // Original path for renames, empty otherwise
	Status    DeltaStatus // added, modified, deleted, or renamed
	Additions int         // Lines added
	Deletions int         // Lines deleted
	Patch     string      // Unified diff text for this file
}

// Comparison is the summarized result of comparing two commits.
type Comparison struct {
	FromCommit     string      // Ref or sha the comparison starts from
	ToCommit       string      // Ref or sha the comparison ends at
	Files          []FileDelta // Per-file deltas
	TotalAdditions int         // Exact sum of Additions over Files
	TotalDeletions int         // Exact sum of Deletions over Files
	Summary        string      // One-line deterministic summary
}

// ResetMode determines how rollback_to_commit treats the index and working tree.
type ResetMode string

// Reset mode constants matching git reset semantics.
const (
	// ResetSoft moves the branch pointer only; index and working tree are preserved.
	ResetSoft ResetMode = "soft"
	// ResetMixed moves the branch pointer and resets the index; working tree is preserved.
	ResetMixed ResetMode = "mixed"
	// ResetHard resets branch pointer, index, and working tree. Destructive:
	// uncommitted work is permanently lost.
	ResetHard ResetMode = "hard"
)

// ParseResetMode validates a reset mode string.
func ParseResetMode(s string) (ResetMode, error) {
	switch ResetMode(strings.ToLower(s)) {
	case ResetSoft:
		return ResetSoft, nil
	case ResetMixed:
		return ResetMixed, nil
	case ResetHard:
		return ResetHard, nil
	default:
		return "", gberrors.Wrapf(gberrors.ErrUnknownResetMode, "reset mode %q", s)
	}
}

// ShortSHA returns the abbreviated form of a commit hash.
func ShortSHA(sha string) string {
	const shortLen = 7
	if len(sha) <= shortLen {
		return sha
	}
	return sha[:shortLen]
}
