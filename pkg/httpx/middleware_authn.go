package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/nivesh/brokerlink/pkg/jwtx"
)

type errEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, errEnvelope{Success: false, Message: msg})
}

// RequireAuth validates the Bearer token and attaches its claims to the
// request context. Requests without a valid token are rejected before
// the handler runs.
func RequireAuth(verifier jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				if errors.Is(err, jwtx.ErrTokenExpired) {
					writeAuthError(w, http.StatusUnauthorized, "token expired")
					return
				}
				writeAuthError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), claims)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}
