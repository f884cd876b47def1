// Package git provides Git repository access for gitbridge.
// This file classifies git diagnostics into sentinel errors.
package git

import (
	"strings"

	gberrors "github.com/mrz1836/gitbridge/internal/errors"
)

// PatternMatcher checks if a string contains any of a list of patterns.
// It performs case-insensitive matching on the lowercased input.
type PatternMatcher struct {
	patterns []string
}

// NewPatternMatcher creates a new PatternMatcher with the given patterns.
// All patterns should be lowercase for consistent matching.
func NewPatternMatcher(patterns ...string) *PatternMatcher {
	return &PatternMatcher{patterns: patterns}
}

// Matches returns true if the input string contains any of the patterns.
// The input is lowercased before matching.
func (m *PatternMatcher) Matches(s string) bool {
	lower := strings.ToLower(s)
	return m.MatchesLower(lower)
}

// MatchesLower checks if an already-lowercased string matches any pattern.
// Use this when you've already lowercased the input for better performance.
func (m *PatternMatcher) MatchesLower(lower string) bool {
	for _, pattern := range m.patterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// Diagnostic pattern matchers for git CLI output.
//
//nolint:gochecknoglobals // Package-level immutable pattern matchers for performance
var (
	// notRepoPatterns matches "path is not a repository" diagnostics.
	notRepoPatterns = NewPatternMatcher(
		"not a git repository",
		"not a work tree",
	)

	// ambiguousPatterns matches ambiguous abbreviated object names.
	ambiguousPatterns = NewPatternMatcher(
		"is ambiguous",
		"short object id",
		"more than one",
	)

	// refNotFoundPatterns matches unknown revision/ref diagnostics.
	refNotFoundPatterns = NewPatternMatcher(
		"unknown revision",
		"bad revision",
		"not a valid ref",
		"did not match any",
		"needed a single revision",
		"no such ref",
		"not something we can merge",
		"invalid reference",
		"does not have any commits yet",
	)

	// branchExistsPatterns matches branch name collisions.
	branchExistsPatterns = NewPatternMatcher(
		"already exists",
	)

	// dirtyPatterns matches checkouts blocked by local modifications.
	dirtyPatterns = NewPatternMatcher(
		"would be overwritten by checkout",
		"commit your changes or stash them",
		"contains unstaged changes",
		"worktree contains untracked files",
	)

	// noChangesPatterns matches empty-commit diagnostics.
	noChangesPatterns = NewPatternMatcher(
		"nothing to commit",
		"nothing added to commit",
		"no changes added to commit",
		"clean working tree",
	)
)

// ClassifyOutput translates a git diagnostic string into the matching
// sentinel error. Returns ErrGitOperation when nothing matches.
//
// Classification priority (first match wins):
//  1. Not a repository (most fundamental failure)
//  2. Nothing to commit (success-shaped no-op)
//  3. Ambiguous abbreviated ref
//  4. Dirty worktree blocking a checkout
//  5. Branch already exists
//  6. Ref not found (general, last resort)
func ClassifyOutput(diag string) error {
	lower := strings.ToLower(diag)

	switch {
	case notRepoPatterns.MatchesLower(lower):
		return gberrors.ErrNotGitRepo
	case noChangesPatterns.MatchesLower(lower):
		return gberrors.ErrNoChanges
	case ambiguousPatterns.MatchesLower(lower):
		return gberrors.ErrAmbiguousRef
	case dirtyPatterns.MatchesLower(lower):
		return gberrors.ErrDirtyWorktree
	case branchExistsPatterns.MatchesLower(lower):
		return gberrors.ErrBranchExists
	case refNotFoundPatterns.MatchesLower(lower):
		return gberrors.ErrRefNotFound
	default:
		return gberrors.ErrGitOperation
	}
}
