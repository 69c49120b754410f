package httpx

import (
	"context"

	"github.com/nivesh/brokerlink/pkg/jwtx"
)

type identityKey struct{}

// WithIdentity stashes verified token claims into the request context.
func WithIdentity(ctx context.Context, claims jwtx.Claims) context.Context {
	return context.WithValue(ctx, identityKey{}, claims)
}

// IdentityFromContext retrieves the claims placed by RequireAuth.
func IdentityFromContext(ctx context.Context) (jwtx.Claims, bool) {
	claims, ok := ctx.Value(identityKey{}).(jwtx.Claims)
	return claims, ok
}
