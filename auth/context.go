package auth

import "context"

type (
	ctxKey byte
)

var (
	userIDKey = ctxKey(1)
)

// WithUserID attaches the authenticated user id to ctx.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the authenticated user id attached to ctx, if any.
func UserID(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(userIDKey).(int64)
	return v, ok
}
