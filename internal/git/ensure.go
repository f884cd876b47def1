// Package git provides Git repository access for gitbridge.
// This file handles repository initialization and the lazy-init step
// that write operations run before touching the repository.
package git

import (
	"context"
	"os"
	"path/filepath"

	gitlib "github.com/go-git/go-git/v5"

	"github.com/mrz1836/gitbridge/internal/constants"
	"github.com/mrz1836/gitbridge/internal/ctxutil"
	gberrors "github.com/mrz1836/gitbridge/internal/errors"
)

// InitResult describes the outcome of repository initialization.
type InitResult struct {
	Path           string // Absolute repository path
	AlreadyExisted bool   // True when the path already held a repository
	Branch         string // Branch name after initialization
	InitialCommit  string // Sha of the baseline commit, empty when AlreadyExisted
}

// InitRepository initializes a git repository at path, creating the directory
// if needed. With initialCommit set, a fresh repository gets a baseline file
// and an initial commit so HEAD resolves immediately. Re-initializing an
// existing repository is a success-shaped no-op that never touches its history.
func InitRepository(ctx context.Context, path string, engine Engine, initialCommit bool) (*InitResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, gberrors.Wrap(gberrors.ErrEmptyValue, "repository path cannot be empty")
	}

	if IsInitialized(path) {
		runner, err := Open(ctx, path, engine)
		if err != nil {
			return nil, err
		}
		status, err := runner.Status(ctx)
		if err != nil {
			return nil, err
		}
		return &InitResult{Path: path, AlreadyExisted: true, Branch: status.Branch}, nil
	}

	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, gberrors.Wrapf(gberrors.ErrGitOperation, "create directory %q: %v", path, err)
	}

	if err := initMetadata(ctx, path, engine); err != nil {
		return nil, err
	}

	result := &InitResult{Path: path}

	if initialCommit {
		if err := writeBaselineFile(path); err != nil {
			return nil, err
		}
	}

	runner, err := Open(ctx, path, engine)
	if err != nil {
		return nil, err
	}

	if initialCommit {
		if err := runner.StageAll(ctx); err != nil {
			return nil, err
		}
		sha, err := runner.Commit(ctx, constants.InitialCommitMessage)
		if err != nil {
			return nil, err
		}
		result.InitialCommit = sha
	}

	status, err := runner.Status(ctx)
	if err != nil {
		return nil, err
	}
	result.Branch = status.Branch

	return result, nil
}

// EnsureRepository makes sure a repository exists at path before a write
// operation proceeds, initializing metadata when missing. The lazy path never
// writes a baseline commit; the caller's own mutation supplies the first
// commit. Returns true when initialization ran.
func EnsureRepository(ctx context.Context, path string, engine Engine) (bool, error) {
	if IsInitialized(path) {
		return false, nil
	}
	if _, err := InitRepository(ctx, path, engine, false); err != nil {
		return false, gberrors.Wrap(err, "lazy repository initialization failed")
	}
	return true, nil
}

// initMetadata creates the git metadata directory with the selected engine.
func initMetadata(ctx context.Context, path string, engine Engine) error {
	switch engine {
	case EngineNative:
		if _, err := gitlib.PlainInit(path, false); err != nil {
			return gberrors.Wrapf(gberrors.ErrGitOperation, "init repository %q: %v", path, err)
		}
		return nil
	case EngineCLI:
		if _, err := RunCommand(ctx, path, "init"); err != nil {
			return err
		}
		return ensureIdentity(ctx, path)
	default:
		return gberrors.Wrapf(gberrors.ErrUnknownEngine, "engine %q", string(engine))
	}
}

// ensureIdentity guarantees a fresh repository can author commits even when
// the host has no global git identity configured.
func ensureIdentity(ctx context.Context, path string) error {
	if _, err := RunCommand(ctx, path, "config", "user.email"); err == nil {
		return nil
	}
	if _, err := RunCommand(ctx, path, "config", "user.name", fallbackAuthorName); err != nil {
		return gberrors.Wrap(err, "configure commit author name")
	}
	if _, err := RunCommand(ctx, path, "config", "user.email", fallbackAuthorEmail); err != nil {
		return gberrors.Wrap(err, "configure commit author email")
	}
	return nil
}

// writeBaselineFile drops the marker file a fresh repository commits first.
// Existing files are left alone so init on a pre-populated directory commits
// whatever is already there.
func writeBaselineFile(path string) error {
	target := filepath.Join(path, constants.BaselineFileName)
	if _, err := os.Stat(target); err == nil {
		return nil
	}
	if err := os.WriteFile(target, []byte(constants.BaselineFileContent), 0o600); err != nil {
		return gberrors.Wrapf(gberrors.ErrGitOperation, "write baseline file: %v", err)
	}
	return nil
}
