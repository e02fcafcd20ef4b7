package graph

import (
	"context"

	"goboard/internal/app"
)

type scopeKey struct{}

// RequestScope carries the per-request handles the resolvers need. The HTTP
// layer builds one per incoming request and attaches it to the execution
// context.
type RequestScope struct {
	Session app.Session
}

func WithScope(ctx context.Context, scope *RequestScope) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

func ScopeFrom(ctx context.Context) *RequestScope {
	scope, _ := ctx.Value(scopeKey{}).(*RequestScope)
	return scope
}
