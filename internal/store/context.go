package store

import "context"

type contextKey int

const visibilityFilterKey contextKey = iota

type visibilityFilter struct {
	publicOnly bool
}

// WithPublicOnly restricts every read issued under the context to records
// whose own is_public flag is set, the way anonymous profile viewing is
// served. Effective visibility (ancestor chain, profile flag) is the tree
// core's concern, not a SQL filter.
func WithPublicOnly(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, visibilityFilterKey, visibilityFilter{publicOnly: true})
}

func publicOnly(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	filter, ok := ctx.Value(visibilityFilterKey).(visibilityFilter)
	return ok && filter.publicOnly
}
