// Package tools implements the operation catalog and dispatcher.
// This file decodes and validates raw argument objects against the catalog.
package tools

import (
	"math"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	gberrors "github.com/mrz1836/gitbridge/internal/errors"
)

// Typed argument structs, one per operation. Pointer fields distinguish
// "omitted" from the zero value where the default is not the zero value.
type (
	repoArgs struct {
		RepoPath string `mapstructure:"repo_path"`
	}

	initializeRepoArgs struct {
		RepoPath      string `mapstructure:"repo_path"`
		InitialCommit *bool  `mapstructure:"initial_commit"`
	}

	commitAllArgs struct {
		RepoPath string `mapstructure:"repo_path"`
		Message  string `mapstructure:"message"`
	}

	listCommitsArgs struct {
		RepoPath string `mapstructure:"repo_path"`
		Branch   string `mapstructure:"branch"`
		Limit    *int   `mapstructure:"limit"`
	}

	rollbackArgs struct {
		RepoPath  string `mapstructure:"repo_path"`
		CommitSha string `mapstructure:"commit_sha"`
		Mode      string `mapstructure:"mode"`
	}

	compareArgs struct {
		RepoPath   string `mapstructure:"repo_path"`
		FromCommit string `mapstructure:"from_commit"`
		ToCommit   string `mapstructure:"to_commit"`
	}

	createBranchArgs struct {
		RepoPath   string `mapstructure:"repo_path"`
		BranchName string `mapstructure:"branch_name"`
		FromRef    string `mapstructure:"from_ref"`
	}

	switchBranchArgs struct {
		RepoPath   string `mapstructure:"repo_path"`
		BranchName string `mapstructure:"branch_name"`
		Force      bool   `mapstructure:"force"`
	}

	generateMessageArgs struct {
		RepoPath string `mapstructure:"repo_path"`
		Style    string `mapstructure:"style"`
	}
)

// decodeArgs validates raw arguments against the operation's schema and
// decodes them into out. Validation failures carry ErrInvalidArgument so they
// map to the invalid_argument kind without reaching the engine.
func decodeArgs(spec OpSpec, raw map[string]any, out any) error {
	if raw == nil {
		raw = map[string]any{}
	}

	for _, arg := range spec.Args {
		val, present := raw[arg.Name]
		if !present {
			if arg.Required {
				return gberrors.Wrapf(gberrors.ErrInvalidArgument, "missing required argument %q", arg.Name)
			}
			continue
		}
		if len(arg.Enum) > 0 {
			s, ok := val.(string)
			if !ok {
				return gberrors.Wrapf(gberrors.ErrInvalidArgument, "argument %q must be a string", arg.Name)
			}
			if !enumContains(arg.Enum, s) {
				return gberrors.Wrapf(gberrors.ErrInvalidArgument,
					"argument %q must be one of %s, got %q", arg.Name, strings.Join(arg.Enum, "|"), s)
			}
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
		DecodeHook:  wholeNumberHook,
	})
	if err != nil {
		return gberrors.Wrap(err, "building argument decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return gberrors.Wrapf(gberrors.ErrInvalidArgument, "invalid arguments: %v", err)
	}

	return nil
}

// wholeNumberHook accepts JSON numbers for int arguments, but only when they
// are whole. 1.5 is a type error, not a truncation.
func wholeNumberHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Float64 || to.Kind() != reflect.Int {
		return data, nil
	}
	f, ok := data.(float64)
	if !ok {
		return data, nil
	}
	if f != math.Trunc(f) {
		return nil, gberrors.Wrapf(gberrors.ErrInvalidArgument, "expected an integer, got %v", f)
	}
	return int(f), nil
}

// enumContains checks enum membership case-insensitively. Downstream parse
// functions normalize the casing.
func enumContains(enum []string, value string) bool {
	for _, e := range enum {
		if strings.EqualFold(e, value) {
			return true
		}
	}
	return false
}
