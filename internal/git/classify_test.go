package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gberrors "github.com/mrz1836/gitbridge/internal/errors"
)

func TestPatternMatcher(t *testing.T) {
	matcher := NewPatternMatcher("already exists", "not found")

	t.Run("matches case-insensitively", func(t *testing.T) {
		assert.True(t, matcher.Matches("fatal: a branch named 'x' ALREADY EXISTS"))
	})

	t.Run("no match", func(t *testing.T) {
		assert.False(t, matcher.Matches("everything is fine"))
	})

	t.Run("matches lowered input", func(t *testing.T) {
		assert.True(t, matcher.MatchesLower("ref not found"))
	})
}

func TestClassifyOutput(t *testing.T) {
	tests := []struct {
		name string
		diag string
		want error
	}{
		{
			name: "not a repository",
			diag: "fatal: not a git repository (or any of the parent directories): .git",
			want: gberrors.ErrNotGitRepo,
		},
		{
			name: "nothing to commit",
			diag: "nothing to commit, working tree clean",
			want: gberrors.ErrNoChanges,
		},
		{
			name: "ambiguous short sha",
			diag: "error: short object ID ab12 is ambiguous",
			want: gberrors.ErrAmbiguousRef,
		},
		{
			name: "checkout blocked by local changes",
			diag: "error: Your local changes to the following files would be overwritten by checkout:",
			want: gberrors.ErrDirtyWorktree,
		},
		{
			name: "branch collision",
			diag: "fatal: a branch named 'main' already exists",
			want: gberrors.ErrBranchExists,
		},
		{
			name: "unknown revision",
			diag: "fatal: ambiguous argument 'nope': unknown revision or path not in the working tree.",
			want: gberrors.ErrRefNotFound,
		},
		{
			name: "unborn branch",
			diag: "fatal: your current branch 'main' does not have any commits yet",
			want: gberrors.ErrRefNotFound,
		},
		{
			name: "unrecognized diagnostic",
			diag: "fatal: something completely different",
			want: gberrors.ErrGitOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ClassifyOutput(tt.diag)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
