// Package tools implements the operation catalog and dispatcher.
// This file defines the uniform result envelope and error taxonomy mapping.
package tools

import (
	"errors"

	gberrors "github.com/mrz1836/gitbridge/internal/errors"
)

// ErrorKind is the uniform error classification crossing the operation
// boundary. Callers branch on kinds, not on message text.
type ErrorKind string

// Error kinds returned by the dispatcher.
const (
	KindInvalidArgument    ErrorKind = "invalid_argument"
	KindNotInitialized     ErrorKind = "not_initialized"
	KindNotFound           ErrorKind = "not_found"
	KindAmbiguousReference ErrorKind = "ambiguous_reference"
	KindAlreadyExists      ErrorKind = "already_exists"
	KindConflict           ErrorKind = "conflict"
	KindEngineFailure      ErrorKind = "engine_failure"
)

// OpError is the structured error payload of a failed operation.
type OpError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// Result is the envelope every operation returns. Exactly one of Payload and
// Error is populated. NoOp marks success-shaped outcomes where the requested
// effect was already in place and nothing was mutated.
type Result struct {
	OK      bool           `json:"ok"`
	NoOp    bool           `json:"no_op,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
	Error   *OpError       `json:"error,omitempty"`
}

// KindOf maps an error chain onto the taxonomy. Unrecognized errors are
// engine failures: the operation reached the engine and the engine refused.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, gberrors.ErrInvalidArgument),
		errors.Is(err, gberrors.ErrEmptyValue),
		errors.Is(err, gberrors.ErrUnknownOperation),
		errors.Is(err, gberrors.ErrUnknownStyle),
		errors.Is(err, gberrors.ErrUnknownResetMode),
		errors.Is(err, gberrors.ErrUnknownEngine):
		return KindInvalidArgument
	case errors.Is(err, gberrors.ErrNotInitialized),
		errors.Is(err, gberrors.ErrNotGitRepo):
		return KindNotInitialized
	case errors.Is(err, gberrors.ErrAmbiguousRef):
		return KindAmbiguousReference
	case errors.Is(err, gberrors.ErrRefNotFound),
		errors.Is(err, gberrors.ErrBranchNotFound):
		return KindNotFound
	case errors.Is(err, gberrors.ErrBranchExists):
		return KindAlreadyExists
	case errors.Is(err, gberrors.ErrDirtyWorktree),
		errors.Is(err, gberrors.ErrDetachedHead):
		return KindConflict
	default:
		return KindEngineFailure
	}
}

// success builds an OK result with the given payload.
func success(payload map[string]any) *Result {
	return &Result{OK: true, Payload: payload}
}

// noOp builds a success-shaped result for an effect that was already in place.
func noOp(payload map[string]any) *Result {
	return &Result{OK: true, NoOp: true, Payload: payload}
}

// failure classifies err and builds an error result.
func failure(err error) *Result {
	return &Result{
		OK: false,
		Error: &OpError{
			Kind:    KindOf(err),
			Message: err.Error(),
		},
	}
}
