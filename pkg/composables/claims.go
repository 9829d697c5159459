package composables

import (
	"context"

	"github.com/iota-uz/railway-dispatch/pkg/constants"
)

// WithClaims stores verified token claims and the raw token they came from.
func WithClaims(ctx context.Context, raw string, claims any) context.Context {
	ctx = context.WithValue(ctx, constants.TokenKey, raw)
	return context.WithValue(ctx, constants.ClaimsKey, claims)
}

func UseClaims[C any](ctx context.Context) (C, bool) {
	c, ok := ctx.Value(constants.ClaimsKey).(C)
	return c, ok
}

func UseToken(ctx context.Context) (string, bool) {
	raw, ok := ctx.Value(constants.TokenKey).(string)
	return raw, ok && raw != ""
}
