// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// RunKey is the context key for the pipeline run ID.
type RunKey struct{}

// TenantKey is the context key for the tenant ID.
type TenantKey struct{}

// WithRunID returns a context with the run ID embedded.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunKey{}, runID)
}

// RunFromContext returns the run ID from context, or empty string if not set.
func RunFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(RunKey{}).(string); ok {
		return v
	}
	return ""
}

// WithTenantID returns a context with the tenant ID embedded.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, TenantKey{}, tenantID)
}

// TenantFromContext returns the tenant ID from context, or empty string if not set.
func TenantFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(TenantKey{}).(string); ok {
		return v
	}
	return ""
}
