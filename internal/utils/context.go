package utils

import "context"

const UserIDKey contextKey = "user_id"

type ctxKey string

const internalRequestKey ctxKey = "internal_request"

// WithInternalRequest marks a request that authenticated with the shared
// service secret.
func WithInternalRequest(ctx context.Context) context.Context {
	return context.WithValue(ctx, internalRequestKey, true)
}

func IsInternalRequest(ctx context.Context) bool {
	v, _ := ctx.Value(internalRequestKey).(bool)
	return v
}
