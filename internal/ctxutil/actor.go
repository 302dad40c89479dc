// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// ActorKey is the context key for the acting operator.
// Exported so it can be used consistently across packages.
type ActorKey struct{}

type actor struct {
	username string
	role     string
}

// WithActor returns a context carrying the operator's username and role.
func WithActor(ctx context.Context, username, role string) context.Context {
	return context.WithValue(ctx, ActorKey{}, actor{username: username, role: role})
}

// WithActorID returns a context carrying only the operator's username.
func WithActorID(ctx context.Context, username string) context.Context {
	return WithActor(ctx, username, "")
}

// ActorFromContext returns the operator's username, or empty string if not set.
func ActorFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ActorKey{}).(actor); ok {
		return v.username
	}
	return ""
}

// RoleFromContext returns the operator's role, or empty string if not set.
func RoleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ActorKey{}).(actor); ok {
		return v.role
	}
	return ""
}
