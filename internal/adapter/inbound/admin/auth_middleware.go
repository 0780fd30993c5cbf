package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/solawi-gate/listgate/internal/domain/store"
)

// principalContextKey is the context key type for the resolved principal.
type principalContextKey struct{}

// principalKey is the context key under which the resolved admin
// principal is stored for downstream handlers.
var principalKey = principalContextKey{}

// principalFromContext retrieves the resolved principal, if any.
func principalFromContext(ctx context.Context) (store.Principal, bool) {
	p, ok := ctx.Value(principalKey).(store.Principal)
	return p, ok
}

// adminAuthMiddleware resolves the request's bearer credential and
// requires it to resolve to an admin principal (§9's is_admin
// predicate). Missing or non-admin credentials are rejected with 401/403.
func (h *AdminAPIHandler) adminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		cred, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || cred == "" {
			h.respondError(w, http.StatusUnauthorized, "missing bearer credential")
			return
		}

		p, err := h.resolver.Resolve(r.Context(), cred)
		if err != nil {
			h.respondError(w, http.StatusUnauthorized, "invalid credential")
			return
		}
		if !p.IsAdmin {
			h.respondError(w, http.StatusForbidden, "admin API requires an admin credential")
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
