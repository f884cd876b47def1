// Package git provides Git repository access for gitbridge.
// This file normalizes raw patch output into per-file deltas and summaries.
package git

import (
	"fmt"
	"strings"
)

// Summarize aggregates per-file deltas into a Comparison. Totals are the
// exact sums over all entries; the summary line is deterministic.
func Summarize(from, to string, deltas []FileDelta) *Comparison {
	cmp := &Comparison{
		FromCommit: from,
		ToCommit:   to,
		Files:      deltas,
	}
	if cmp.Files == nil {
		cmp.Files = []FileDelta{}
	}

	for _, d := range cmp.Files {
		cmp.TotalAdditions += d.Additions
		cmp.TotalDeletions += d.Deletions
	}

	cmp.Summary = fmt.Sprintf("%d files changed, +%d/-%d",
		len(cmp.Files), cmp.TotalAdditions, cmp.TotalDeletions)

	return cmp
}

// ParsePatch splits unified diff output into per-file deltas. Line counts are
// exact counts of +/- lines in each file's patch, so binary files report 0/0.
func ParsePatch(patch string) []FileDelta {
	deltas := []FileDelta{}
	if strings.TrimSpace(patch) == "" {
		return deltas
	}

	for _, section := range splitPatchSections(patch) {
		deltas = append(deltas, parsePatchSection(section))
	}

	return deltas
}

// splitPatchSections splits a multi-file patch on "diff --git" headers.
func splitPatchSections(patch string) []string {
	const header = "diff --git "

	var sections []string
	var current []string

	for _, line := range strings.Split(patch, "\n") {
		if strings.HasPrefix(line, header) {
			if len(current) > 0 {
				sections = append(sections, strings.Join(current, "\n"))
			}
			current = []string{line}
			continue
		}
		if len(current) > 0 {
			current = append(current, line)
		}
	}
	if len(current) > 0 {
		sections = append(sections, strings.Join(current, "\n"))
	}

	return sections
}

// parsePatchSection builds a FileDelta from one file's patch text.
func parsePatchSection(section string) FileDelta {
	delta := FileDelta{
		Status: DeltaModified,
		Patch:  section,
	}

	inHunk := false
	for _, line := range strings.Split(section, "\n") {
		switch {
		case strings.HasPrefix(line, "@@"):
			inHunk = true
		case !inHunk && strings.HasPrefix(line, "new file mode"):
			delta.Status = DeltaAdded
		case !inHunk && strings.HasPrefix(line, "deleted file mode"):
			delta.Status = DeltaDeleted
		case !inHunk && strings.HasPrefix(line, "rename from "):
			delta.Status = DeltaRenamed
			delta.OldPath = unquotePath(strings.TrimPrefix(line, "rename from "))
		case !inHunk && strings.HasPrefix(line, "rename to "):
			delta.Status = DeltaRenamed
			delta.Filename = unquotePath(strings.TrimPrefix(line, "rename to "))
		case !inHunk && strings.HasPrefix(line, "+++ b/"):
			if delta.Filename == "" {
				delta.Filename = unquotePath(strings.TrimPrefix(line, "+++ b/"))
			}
		case !inHunk && strings.HasPrefix(line, "--- a/"):
			// Only source for the name when the file was deleted (+++ is /dev/null)
			if delta.Filename == "" && delta.Status == DeltaDeleted {
				delta.Filename = unquotePath(strings.TrimPrefix(line, "--- a/"))
			}
		case inHunk && strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			delta.Additions++
		case inHunk && strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			delta.Deletions++
		}
	}

	if delta.Filename == "" {
		delta.Filename = filenameFromGitHeader(section)
	}

	return delta
}

// filenameFromGitHeader falls back to the "diff --git a/X b/Y" header for
// files with no hunks (binary files, mode-only changes).
func filenameFromGitHeader(section string) string {
	line, _, _ := strings.Cut(section, "\n")
	line = strings.TrimPrefix(line, "diff --git ")

	// The b/ path is authoritative; it survives renames.
	if idx := strings.LastIndex(line, " b/"); idx != -1 {
		return unquotePath(line[idx+len(" b/"):])
	}
	return ""
}

// unquotePath strips the quoting git applies to paths with special characters.
func unquotePath(path string) string {
	path = strings.TrimSpace(path)
	if len(path) >= 2 && strings.HasPrefix(path, `"`) && strings.HasSuffix(path, `"`) {
		path = path[1 : len(path)-1]
	}
	return path
}
