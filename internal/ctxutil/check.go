// Package ctxutil provides context helpers shared by the git engines.
package ctxutil

import "context"

// Canceled reports whether ctx is already done. Engine methods call it on
// entry so a canceled operation returns before any repository work starts.
// ctx.Err() is nil until Done is closed, so no select is needed.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}
