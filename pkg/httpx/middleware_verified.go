package httpx

import (
	"context"
	"net/http"
)

// VerifiedFunc reports whether the subject's account is currently
// verified. It is consulted per request so verification applies to
// tokens issued before the account was verified.
type VerifiedFunc func(ctx context.Context, subject string) (bool, error)

// RequireVerified gates routes behind account verification. Must run
// inside RequireAuth so claims are present.
func RequireVerified(lookup VerifiedFunc) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := IdentityFromContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			verified, err := lookup(r.Context(), claims.Subject)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			if !verified {
				writeAuthError(w, http.StatusForbidden, "account not verified")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
