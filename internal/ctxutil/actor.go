// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// ActorKey is the context key for the acting auditor.
type ActorKey struct{}

// WithActor returns a context carrying the identity of whoever is running
// the command. The service uses it as the auditor when a request names none.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, ActorKey{}, actor)
}

// ActorFromContext returns the actor from context, or empty string if not set.
func ActorFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ActorKey{}).(string); ok {
		return v
	}
	return ""
}
