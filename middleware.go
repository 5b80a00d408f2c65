package recipeapi

import (
	"context"
	"log/slog"
	"net/http"
)

type identityContextKey struct{}

// IdentityFromContext returns the Identity attached by the middleware, or
// false on requests that never passed the guard.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	ident, ok := ctx.Value(identityContextKey{}).(*Identity)
	return ident, ok
}

// ContextWithIdentity attaches an Identity to a context. Exported for the
// gRPC interceptor and for tests that fake a logged-in request.
func ContextWithIdentity(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, ident)
}

// Middleware gates protected routes on a valid credential cookie. It is
// idempotent and side-effect-free on success: no refresh, no rotation,
// pure CPU-bound verification.
type Middleware struct {
	Auth *Authenticator
}

// authorize extracts and verifies the credential from the request cookie.
// A missing cookie and a failing one return different errors for logging,
// but callers must respond identically to both.
func (m *Middleware) authorize(r *http.Request) (*Identity, error) {
	cookie, err := r.Cookie(m.Auth.cookieName())
	if err != nil || cookie.Value == "" {
		return nil, ErrNoCredential
	}

	// Verify already wraps its failures in ErrInvalidCredential.
	return m.Auth.Verify(cookie.Value)
}

// EnsureAuthenticated rejects requests without a valid credential with a
// generic 401 and otherwise attaches the decoded Identity to the request
// context for downstream handlers.
func (m *Middleware) EnsureAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, err := m.authorize(r)
		if err != nil {
			slog.Debug("rejected request", "path", r.URL.Path, "reason", err)
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), ident)))
	})
}

// ExtractIdentity attaches the Identity when a valid credential is present
// but lets anonymous requests through. For routes that merely personalize.
func (m *Middleware) ExtractIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ident, err := m.authorize(r); err == nil {
			r = r.WithContext(ContextWithIdentity(r.Context(), ident))
		}
		next.ServeHTTP(w, r)
	})
}
