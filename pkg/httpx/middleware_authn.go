package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/anurag24-26/openup/pkg/jwtx"
	"github.com/anurag24-26/openup/pkg/slogx"
)

// SessionCookieName is the cookie the login endpoint sets and the browser
// sends back. A bearer Authorization header works too and wins when both
// are present.
const SessionCookieName = "openup_session"

// AuthnMiddleware verifies the session token and injects the caller's
// identity into the request context. This is the gate every protected
// operation passes before touching state.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw := TokenFromRequest(r)
			if raw == "" {
				ErrUnauthenticated.WriteError(w)
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("session verify failed", "err", err)
				ErrUnauthenticated.WriteError(w)
				return
			}

			ctx = contextWithSession(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromRequest extracts the raw session token from the Authorization
// header or, failing that, the session cookie. Returns "" if neither is
// present.
func TokenFromRequest(r *http.Request) string {
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
	}

	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

func contextWithSession(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyUsername, c.Username)
	return ctx
}
