package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/gitbridge/internal/constants"
	gberrors "github.com/mrz1836/gitbridge/internal/errors"
)

func TestInitRepository(t *testing.T) {
	for _, engine := range engines {
		t.Run(string(engine), func(t *testing.T) {
			t.Run("creates repo with baseline commit", func(t *testing.T) {
				repoPath := filepath.Join(t.TempDir(), "project")

				result, err := InitRepository(context.Background(), repoPath, engine, true)
				require.NoError(t, err)
				assert.Equal(t, repoPath, result.Path)
				assert.False(t, result.AlreadyExisted)
				assert.Len(t, result.InitialCommit, 40)
				assert.NotEmpty(t, result.Branch)
				assert.True(t, IsInitialized(repoPath))

				content, err := os.ReadFile(filepath.Join(repoPath, constants.BaselineFileName))
				require.NoError(t, err)
				assert.Equal(t, constants.BaselineFileContent, string(content))

				// HEAD resolves immediately after initialization
				runner := openRunner(t, repoPath, engine)
				commits, err := runner.Log(context.Background(), "HEAD", 10)
				require.NoError(t, err)
				require.Len(t, commits, 1)
				assert.Equal(t, constants.InitialCommitMessage, commits[0].Message)
			})

			t.Run("no-op on existing repository", func(t *testing.T) {
				repoPath := setupTestRepo(t)
				createFile(t, repoPath, "existing.txt", "content")
				commitInitial(t, repoPath)

				result, err := InitRepository(context.Background(), repoPath, engine, true)
				require.NoError(t, err)
				assert.True(t, result.AlreadyExisted)
				assert.Empty(t, result.InitialCommit)

				// History is untouched
				runner := openRunner(t, repoPath, engine)
				commits, err := runner.Log(context.Background(), "HEAD", 10)
				require.NoError(t, err)
				require.Len(t, commits, 1)
				assert.Equal(t, "initial commit", commits[0].Message)
			})

			t.Run("commits pre-existing files", func(t *testing.T) {
				dir := t.TempDir()
				require.NoError(t, os.WriteFile(filepath.Join(dir, "data.txt"), []byte("data"), 0o600))

				result, err := InitRepository(context.Background(), dir, engine, true)
				require.NoError(t, err)
				assert.False(t, result.AlreadyExisted)

				runner := openRunner(t, dir, engine)
				status, err := runner.Status(context.Background())
				require.NoError(t, err)
				assert.True(t, status.IsClean(), "pre-existing files are part of the baseline commit")
			})

			t.Run("without baseline commit", func(t *testing.T) {
				repoPath := filepath.Join(t.TempDir(), "bare-meta")

				result, err := InitRepository(context.Background(), repoPath, engine, false)
				require.NoError(t, err)
				assert.False(t, result.AlreadyExisted)
				assert.Empty(t, result.InitialCommit)
				assert.True(t, IsInitialized(repoPath))
				assert.NoFileExists(t, filepath.Join(repoPath, constants.BaselineFileName))
			})

			t.Run("empty path", func(t *testing.T) {
				_, err := InitRepository(context.Background(), "", engine, true)
				require.Error(t, err)
				assert.ErrorIs(t, err, gberrors.ErrEmptyValue)
			})
		})
	}
}

func TestEnsureRepository(t *testing.T) {
	for _, engine := range engines {
		t.Run(string(engine), func(t *testing.T) {
			t.Run("initializes missing repository", func(t *testing.T) {
				repoPath := filepath.Join(t.TempDir(), "lazy")

				ran, err := EnsureRepository(context.Background(), repoPath, engine)
				require.NoError(t, err)
				assert.True(t, ran)
				assert.True(t, IsInitialized(repoPath))
			})

			t.Run("skips existing repository", func(t *testing.T) {
				repoPath := setupTestRepo(t)

				ran, err := EnsureRepository(context.Background(), repoPath, engine)
				require.NoError(t, err)
				assert.False(t, ran)
			})
		})
	}
}
