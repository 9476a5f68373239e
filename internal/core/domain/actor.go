package domain

import "context"

// SystemActor is recorded as creator when no principal is attached to the context.
const SystemActor = "system"

type actorKey struct{}

// WithActor attaches the acting principal's identifier to ctx.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the acting principal, or SystemActor.
func ActorFromContext(ctx context.Context) string {
	if a, ok := ctx.Value(actorKey{}).(string); ok && a != "" {
		return a
	}
	return SystemActor
}
