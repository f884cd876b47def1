package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gberrors "github.com/mrz1836/gitbridge/internal/errors"
)

func TestStatusHelpers(t *testing.T) {
	t.Run("clean status", func(t *testing.T) {
		s := &Status{Branch: "main"}
		assert.True(t, s.IsClean())
		assert.False(t, s.HasModifications())
	})

	t.Run("untracked only is not a modification", func(t *testing.T) {
		s := &Status{Untracked: []string{"new.txt"}}
		assert.False(t, s.IsClean())
		assert.False(t, s.HasModifications())
	})

	t.Run("staged counts as modification", func(t *testing.T) {
		s := &Status{Staged: []FileChange{{Path: "a.go", Status: ChangeModified}}}
		assert.False(t, s.IsClean())
		assert.True(t, s.HasModifications())
	})
}

func TestPendingChanges(t *testing.T) {
	t.Run("merges all buckets", func(t *testing.T) {
		s := &Status{
			Staged:    []FileChange{{Path: "staged.go", Status: ChangeAdded}},
			Unstaged:  []FileChange{{Path: "dirty.go", Status: ChangeModified}},
			Untracked: []string{"fresh.go"},
		}

		changes := s.PendingChanges()
		require.Len(t, changes, 3)
		assert.Equal(t, "staged.go", changes[0].Path)
		assert.Equal(t, "dirty.go", changes[1].Path)
		assert.Equal(t, "fresh.go", changes[2].Path)
		assert.Equal(t, ChangeAdded, changes[2].Status)
	})

	t.Run("deduplicates paths staged and unstaged", func(t *testing.T) {
		s := &Status{
			Staged:   []FileChange{{Path: "both.go", Status: ChangeModified}},
			Unstaged: []FileChange{{Path: "both.go", Status: ChangeModified}},
		}

		changes := s.PendingChanges()
		require.Len(t, changes, 1)
		assert.Equal(t, "both.go", changes[0].Path)
	})
}

func TestParseResetMode(t *testing.T) {
	t.Run("valid modes", func(t *testing.T) {
		for _, mode := range []string{"soft", "mixed", "hard", "HARD"} {
			parsed, err := ParseResetMode(mode)
			require.NoError(t, err)
			assert.NotEmpty(t, parsed)
		}
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := ParseResetMode("nuclear")
		require.Error(t, err)
		assert.ErrorIs(t, err, gberrors.ErrUnknownResetMode)
	})
}

func TestShortSHA(t *testing.T) {
	assert.Equal(t, "abc1234", ShortSHA("abc1234def5678abc1234def5678abc1234def56"))
	assert.Equal(t, "abc", ShortSHA("abc"))
	assert.Empty(t, ShortSHA(""))
}
