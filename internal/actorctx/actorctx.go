// Package actorctx carries the authenticated caller through context.Context
// so layers below the HTTP handlers can attribute writes.
package actorctx

import "context"

type ctxKey struct{}

func WithActor(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, ctxKey{}, subject)
}

func ActorFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxKey{}).(string)

	return v, ok && v != ""
}
