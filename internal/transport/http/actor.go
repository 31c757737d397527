package http

import (
	"context"
	"net/http"

	"github.com/seralva/groupdeals/internal/domain"
)

// The upstream gateway authenticates callers and forwards identity and role
// in these headers; the role is trusted as given and decided exactly once
// here.
const (
	actorIDHeader   = "X-Actor-Id"
	actorRoleHeader = "X-Actor-Role"
)

type actorCtxKey struct{}

// RequireActor rejects requests without a complete identity and stashes the
// parsed Actor on the request context.
func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(actorIDHeader)
		roleHeader := r.Header.Get(actorRoleHeader)
		if id == "" || roleHeader == "" {
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing actor identity")
			return
		}
		role, err := domain.ParseRole(roleHeader)
		if err != nil {
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "unknown actor role")
			return
		}

		actor := domain.Actor{ID: id, Role: role}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorCtxKey{}, actor)))
	})
}

func actorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorCtxKey{}).(domain.Actor)
	return actor, ok
}

// requireActor is the in-handler fetch; RequireActor middleware guarantees
// presence on wired routes.
func requireActor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing actor identity")
	}
	return actor, ok
}
