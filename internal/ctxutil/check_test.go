package ctxutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanceled(t *testing.T) {
	t.Run("active context returns nil", func(t *testing.T) {
		assert.NoError(t, Canceled(context.Background()))
	})

	t.Run("canceled context returns error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.Error(t, Canceled(ctx))
		assert.ErrorIs(t, Canceled(ctx), context.Canceled)
	})

	t.Run("expired deadline returns error", func(t *testing.T) {
		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()
		assert.ErrorIs(t, Canceled(ctx), context.DeadlineExceeded)
	})
}
