package middleware

import (
	"net/http"

	"github.com/luminastore/lumina/internal/domain"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "lumina_session"

// WithUser resolves the session cookie to a user and attaches it to the
// request context. It never rejects a request: an absent or invalid
// session just continues without a user.
func WithUser(users domain.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.UserBySessionToken(r.Context(), cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := domain.NewContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects unauthenticated requests with 401. Must run after
// WithUser in the chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !domain.IsAuthenticated(r.Context()) {
			respondWithError(w, r, domain.Unauthorized("middleware.RequireAuth", "Please login first"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
