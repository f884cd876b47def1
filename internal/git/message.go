// Package git provides Git repository access for gitbridge.
// This file synthesizes commit messages from pending change sets.
package git

import (
	"fmt"
	"sort"
	"strings"

	gberrors "github.com/mrz1836/gitbridge/internal/errors"
)

// MessageStyle selects the commit message format.
type MessageStyle string

// Message style constants.
const (
	// StyleConventional produces conventional-commit prefixed messages.
	StyleConventional MessageStyle = "conventional"
	// StyleSimple produces plain "Update N files" messages.
	StyleSimple MessageStyle = "simple"
)

// ParseMessageStyle validates a message style string.
func ParseMessageStyle(s string) (MessageStyle, error) {
	switch MessageStyle(strings.ToLower(s)) {
	case StyleConventional:
		return StyleConventional, nil
	case StyleSimple:
		return StyleSimple, nil
	default:
		return "", gberrors.Wrapf(gberrors.ErrUnknownStyle, "style %q", s)
	}
}

// CommitType represents the type of change for conventional commits.
type CommitType string

// Commit type constants for conventional commits format.
const (
	CommitTypeFeat     CommitType = "feat"
	CommitTypeFix      CommitType = "fix"
	CommitTypeDocs     CommitType = "docs"
	CommitTypeRefactor CommitType = "refactor"
	CommitTypeTest     CommitType = "test"
	CommitTypeChore    CommitType = "chore"
)

// Suggestion is a synthesized commit message plus the change summary it was
// derived from. The same pending change set always yields the same Suggestion.
type Suggestion struct {
	Message string   // The synthesized commit message
	Details []string // Human-readable lines describing the detected changes
}

// SynthesizeMessage derives a commit message from the pending changes in a
// status snapshot. It is a pure function: no engine access, no clock, no
// randomness, so identical change sets yield identical messages.
func SynthesizeMessage(status *Status, style MessageStyle, maxFiles int) (*Suggestion, error) {
	changes := status.PendingChanges()
	if len(changes) == 0 {
		return nil, gberrors.ErrNoChanges
	}
	if maxFiles <= 0 {
		maxFiles = 5
	}

	paths := make([]string, len(changes))
	for i, fc := range changes {
		paths[i] = fc.Path
	}
	sort.Strings(paths)

	var message string
	switch style {
	case StyleSimple:
		message = fmt.Sprintf("Update %d file(s): %s", len(paths), elidePaths(paths, maxFiles))
	case StyleConventional:
		prefix := InferCommitType(changes)
		message = fmt.Sprintf("%s: update %s", prefix, elidePaths(paths, maxFiles))
	default:
		return nil, gberrors.Wrapf(gberrors.ErrUnknownStyle, "style %q", string(style))
	}

	return &Suggestion{
		Message: message,
		Details: describeChanges(status, maxFiles),
	}, nil
}

// InferCommitType infers the conventional commit type from a change set using
// a fixed precedence: test files, then documentation, then refactor when every
// change is a deletion, then feat.
func InferCommitType(changes []FileChange) CommitType {
	hasTest := false
	hasDocs := false
	allDeletions := len(changes) > 0

	for _, fc := range changes {
		if isTestFile(fc.Path) {
			hasTest = true
		}
		if isDocFile(fc.Path) {
			hasDocs = true
		}
		if fc.Status != ChangeDeleted {
			allDeletions = false
		}
	}

	switch {
	case hasTest:
		return CommitTypeTest
	case hasDocs:
		return CommitTypeDocs
	case allDeletions:
		return CommitTypeRefactor
	default:
		return CommitTypeFeat
	}
}

// isTestFile checks if a file is a test file.
func isTestFile(path string) bool {
	base := strings.ToLower(path)
	if strings.HasSuffix(base, "_test.go") {
		return true
	}
	if strings.HasPrefix(base, "test/") || strings.HasPrefix(base, "tests/") {
		return true
	}
	name := base
	if idx := strings.LastIndex(base, "/"); idx != -1 {
		name = base[idx+1:]
	}
	return strings.HasPrefix(name, "test_") || strings.Contains(name, ".test.")
}

// isDocFile checks if a file is documentation.
func isDocFile(path string) bool {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".rst") || strings.HasSuffix(lower, ".txt") {
		return true
	}
	if strings.HasPrefix(lower, "docs/") || strings.HasPrefix(lower, "doc/") {
		return true
	}
	name := lower
	if idx := strings.LastIndex(lower, "/"); idx != -1 {
		name = lower[idx+1:]
	}
	return strings.HasPrefix(name, "readme")
}

// elidePaths joins up to maxFiles sorted paths, eliding the rest with a count.
func elidePaths(paths []string, maxFiles int) string {
	if len(paths) <= maxFiles {
		return strings.Join(paths, ", ")
	}
	shown := strings.Join(paths[:maxFiles], ", ")
	return fmt.Sprintf("%s (+%d more)", shown, len(paths)-maxFiles)
}

// describeChanges builds the "changes detected" detail lines for a status
// snapshot, mirroring the order staged / modified / untracked.
func describeChanges(status *Status, maxFiles int) []string {
	var details []string

	if len(status.Staged) > 0 {
		details = append(details, "Staged: "+elidePaths(sortedPaths(status.Staged), maxFiles))
	}
	if len(status.Unstaged) > 0 {
		details = append(details, "Modified: "+elidePaths(sortedPaths(status.Unstaged), maxFiles))
	}
	if len(status.Untracked) > 0 {
		untracked := append([]string(nil), status.Untracked...)
		sort.Strings(untracked)
		details = append(details, "New: "+elidePaths(untracked, maxFiles))
	}

	return details
}

// sortedPaths extracts sorted file paths from a change list.
func sortedPaths(changes []FileChange) []string {
	paths := make([]string, len(changes))
	for i, fc := range changes {
		paths[i] = fc.Path
	}
	sort.Strings(paths)
	return paths
}
