package middleware

import (
	"context"
	"net/http"
	"strings"

	amsauth "github.com/amstrack/amsauth"
)

type sessionUserContextKey struct{}

// UserFromContext returns the session user a Guard attached to the
// request context.
func UserFromContext(ctx context.Context) (*amsauth.SessionUser, bool) {
	user, ok := ctx.Value(sessionUserContextKey{}).(*amsauth.SessionUser)
	return user, ok
}

// Guard protects a handler with the session's authorization state.
// Unauthenticated requests are redirected to the login entry point;
// authenticated requests whose primary role for this system is not in
// requiredRoles receive an empty 403. An empty requiredRoles set admits
// any authenticated user.
//
// Role comparison is case-insensitive, like everywhere else roles are
// matched.
func Guard(manager *amsauth.Manager, requiredRoles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(requiredRoles))
	for _, role := range requiredRoles {
		allowed[strings.ToLower(role)] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if manager == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			user := manager.User()
			if user == nil {
				http.Redirect(w, r, manager.LoginPath(), http.StatusFound)
				return
			}

			if len(allowed) > 0 {
				role, ok := amsauth.GetSystemRole(user, manager.SystemID())
				if !ok {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				if _, ok := allowed[strings.ToLower(role)]; !ok {
					w.WriteHeader(http.StatusForbidden)
					return
				}
			}

			ctx := context.WithValue(r.Context(), sessionUserContextKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
