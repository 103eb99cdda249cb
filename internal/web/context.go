package web

import (
	"context"

	"zettel/internal/store"
)

type contextKey int

const userKey contextKey = iota

func WithUser(ctx context.Context, u store.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func CurrentUser(ctx context.Context) (store.User, bool) {
	u, ok := ctx.Value(userKey).(store.User)
	return u, ok
}
