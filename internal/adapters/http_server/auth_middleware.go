package httpserver

import (
	"context"
	"net/http"
	"strings"

	"hostal_ops/internal/app"
	"hostal_ops/internal/domain"
)

type ctxKey int

const actorKey ctxKey = iota

// ActorFrom returns the authenticated actor attached by Authenticate.
func ActorFrom(ctx context.Context) (domain.Actor, bool) {
	a, ok := ctx.Value(actorKey).(domain.Actor)
	return a, ok
}

type tokenParser interface {
	Parse(token string) (domain.Actor, error)
}

// Authenticate validates the bearer token and attaches the actor to the
// request context.
func Authenticate(tokens tokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if !strings.HasPrefix(raw, prefix) {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
				return
			}
			actor, err := tokens.Parse(strings.TrimPrefix(raw, prefix))
			if err != nil {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)))
		})
	}
}

// RequireModule gates a route group behind the permission matrix.
func RequireModule(perms *app.PermissionResolver, module string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFrom(r.Context())
			if !ok {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "no actor in context")
				return
			}
			if !perms.Allowed(r.Context(), actor.Role, module) {
				writeProblem(w, http.StatusForbidden, "Forbidden", "role "+actor.Role+" may not use "+module)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
