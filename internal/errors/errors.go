// Package errors provides centralized error handling for gitbridge.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrInvalidArgument indicates malformed, missing, or out-of-range input.
	// Requests failing argument validation never reach the git engine.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotInitialized indicates a read-only operation was attempted against
	// a path that has no git metadata.
	ErrNotInitialized = errors.New("repository not initialized")

	// ErrNotGitRepo indicates the path is not a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrRefNotFound indicates a referenced branch, commit, or ref does not exist.
	ErrRefNotFound = errors.New("ref not found")

	// ErrBranchNotFound indicates the specified branch does not exist.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrAmbiguousRef indicates an abbreviated sha matches more than one object.
	ErrAmbiguousRef = errors.New("ambiguous ref")

	// ErrBranchExists indicates the branch already exists.
	ErrBranchExists = errors.New("branch already exists")

	// ErrDirtyWorktree indicates an operation would discard uncommitted changes.
	ErrDirtyWorktree = errors.New("worktree has uncommitted changes")

	// ErrGitOperation indicates a git engine call failed and could not be
	// classified more specifically.
	ErrGitOperation = errors.New("git operation failed")

	// ErrNoChanges indicates there was nothing to commit. This is the no-op
	// sentinel: callers treat it as a success-shaped result, not a failure.
	ErrNoChanges = errors.New("no changes to commit")

	// ErrDetachedHead indicates the repository is in detached HEAD state.
	ErrDetachedHead = errors.New("detached HEAD state")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrUnknownOperation indicates an operation name not present in the catalog.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrUnknownStyle indicates an unsupported commit message style.
	ErrUnknownStyle = errors.New("unknown message style")

	// ErrUnknownResetMode indicates a reset mode outside soft/mixed/hard.
	ErrUnknownResetMode = errors.New("unknown reset mode")

	// ErrUnknownEngine indicates an engine name outside cli/native.
	ErrUnknownEngine = errors.New("unknown engine")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidServer indicates an invalid server configuration value.
	ErrConfigInvalidServer = errors.New("invalid server configuration")

	// ErrConfigInvalidMessage indicates an invalid message configuration value.
	ErrConfigInvalidMessage = errors.New("invalid message configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrProtocol indicates a malformed request frame on the wire.
	ErrProtocol = errors.New("malformed request")
)
