package tools

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gberrors "github.com/mrz1836/gitbridge/internal/errors"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"invalid argument", gberrors.ErrInvalidArgument, KindInvalidArgument},
		{"empty value", gberrors.ErrEmptyValue, KindInvalidArgument},
		{"unknown operation", gberrors.ErrUnknownOperation, KindInvalidArgument},
		{"unknown style", gberrors.ErrUnknownStyle, KindInvalidArgument},
		{"unknown reset mode", gberrors.ErrUnknownResetMode, KindInvalidArgument},
		{"not initialized", gberrors.ErrNotInitialized, KindNotInitialized},
		{"not a git repo", gberrors.ErrNotGitRepo, KindNotInitialized},
		{"ref not found", gberrors.ErrRefNotFound, KindNotFound},
		{"branch not found", gberrors.ErrBranchNotFound, KindNotFound},
		{"ambiguous ref", gberrors.ErrAmbiguousRef, KindAmbiguousReference},
		{"branch exists", gberrors.ErrBranchExists, KindAlreadyExists},
		{"dirty worktree", gberrors.ErrDirtyWorktree, KindConflict},
		{"detached head", gberrors.ErrDetachedHead, KindConflict},
		{"git operation", gberrors.ErrGitOperation, KindEngineFailure},
		{"unclassified", errors.New("disk exploded"), KindEngineFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}

	t.Run("survives wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("outer context: %w", gberrors.ErrAmbiguousRef)
		assert.Equal(t, KindAmbiguousReference, KindOf(wrapped))
	})
}

func TestCatalog(t *testing.T) {
	ops := Catalog()
	require.Len(t, ops, 10)

	t.Run("every operation accepts repo_path", func(t *testing.T) {
		for _, op := range ops {
			found := false
			for _, arg := range op.Args {
				if arg.Name == "repo_path" {
					found = true
					assert.False(t, arg.Required, "%s: repo_path is optional, the default path stands in", op.Name)
				}
			}
			assert.True(t, found, "%s missing repo_path", op.Name)
		}
	})

	t.Run("names are unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for _, op := range ops {
			assert.False(t, seen[op.Name], "duplicate operation %s", op.Name)
			seen[op.Name] = true
		}
	})

	t.Run("find known and unknown", func(t *testing.T) {
		op, ok := FindOp(OpRollbackToCommit)
		require.True(t, ok)
		assert.Equal(t, OpRollbackToCommit, op.Name)

		_, ok = FindOp("format_disk")
		assert.False(t, ok)
	})
}
