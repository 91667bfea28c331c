package workflowctx

import "context"

// Unexported context key types for type-safe context values. Empty structs
// prevent collisions between packages.

type tenantIDCtxKey struct{}
type userIDCtxKey struct{}
type idPostfixCtxKey struct{}
type deterministicCtxKey struct{}

// WithTenantID returns a context carrying a tenant id override. Overrides
// take precedence over every other resolution source and are scoped to the
// returned context, so concurrently executing logical units never observe
// each other's values.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantIDCtxKey{}, tenantID)
}

// TenantIDFromContext retrieves the tenant id override from the context.
func TenantIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(tenantIDCtxKey{}).(string)
	return v, ok && v != ""
}

// WithUserID returns a context carrying a user id override.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDCtxKey{}, userID)
}

// UserIDFromContext retrieves the user id override from the context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userIDCtxKey{}).(string)
	return v, ok && v != ""
}

// WithIDPostfix returns a context carrying a correlation suffix override.
func WithIDPostfix(ctx context.Context, idPostfix string) context.Context {
	return context.WithValue(ctx, idPostfixCtxKey{}, idPostfix)
}

// IDPostfixFromContext retrieves the correlation suffix override from the context.
func IDPostfixFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(idPostfixCtxKey{}).(string)
	return v, ok && v != ""
}

// WithDeterministicScope marks the context as executing inside a
// deterministic workflow. Outbound clients consult this marker to suppress
// their own retries: the engine owns replay and retry semantics there, and
// client-side retries would double-retry and break determinism.
func WithDeterministicScope(ctx context.Context) context.Context {
	return context.WithValue(ctx, deterministicCtxKey{}, true)
}

// IsDeterministic reports whether ctx is marked as a deterministic scope.
func IsDeterministic(ctx context.Context) bool {
	v, ok := ctx.Value(deterministicCtxKey{}).(bool)
	return ok && v
}
