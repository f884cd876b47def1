package cli

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/gitbridge/internal/errors"
)

func TestIsValidOutputFormat(t *testing.T) {
	assert.True(t, IsValidOutputFormat(OutputText))
	assert.True(t, IsValidOutputFormat(OutputJSON))
	assert.False(t, IsValidOutputFormat("yaml"))
	assert.False(t, IsValidOutputFormat(""))
}

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error", err: nil, want: ExitSuccess},
		{name: "generic error", err: stderrors.New("boom"), want: ExitError},
		{name: "invalid output format", err: errors.Wrap(errors.ErrInvalidOutputFormat, "bad format"), want: ExitInvalidInput},
		{name: "unknown flag", err: stderrors.New("unknown flag: --frobnicate"), want: ExitInvalidInput},
		{name: "mutually exclusive flags", err: stderrors.New("if any flags in the group [verbose quiet] are set none of the others can be"), want: ExitInvalidInput},
		{name: "unknown command", err: stderrors.New(`unknown command "frob" for "gitbridge"`), want: ExitInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeForError(tt.err))
		})
	}
}
