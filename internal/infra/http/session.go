package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/hlog"

	"paayo-backend/internal/domain"
)

// Session cookies, in lookup order. The first is set directly by the auth
// provider; the signed variants carry the token before the first dot.
var sessionCookieNames = []string{
	"paayo_session",
	"__Secure-better-auth.session_token",
	"better-auth.session_token",
}

// OptionalSession resolves the session cookie when present and attaches
// the AuthenticatedUser to the request context. Absent or invalid
// sessions are not an error here; extractors downstream decide.
func OptionalSession(sessions domain.SessionRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			user, err := sessions.ResolveSession(r.Context(), token, time.Now())
			if err != nil {
				hlog.FromRequest(r).Error().Err(err).Msg("session: lookup failed")
				next.ServeHTTP(w, r)
				return
			}
			if user != nil {
				r = r.WithContext(context.WithValue(r.Context(), ctxKeyUser, user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sessionToken(r *http.Request) string {
	for _, name := range sessionCookieNames {
		cookie, err := r.Cookie(name)
		if err != nil {
			continue
		}
		value, err := url.QueryUnescape(cookie.Value)
		if err != nil {
			value = cookie.Value
		}
		// Signed cookies are "<token>.<signature>"; the token half is
		// what matches session.token.
		if idx := strings.IndexByte(value, '.'); idx > 0 && name != "paayo_session" {
			value = value[:idx]
		}
		if value != "" {
			return value
		}
	}
	return ""
}

// UserFrom returns the resolved session user, or nil.
func UserFrom(ctx context.Context) *domain.AuthenticatedUser {
	if user, ok := ctx.Value(ctxKeyUser).(*domain.AuthenticatedUser); ok {
		return user
	}
	return nil
}

// RequireUser rejects unauthenticated requests with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFrom(r.Context()) == nil {
			WriteError(w, r, domain.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects callers without the admin role with 403.
func RequireAdmin(next http.Handler) http.Handler {
	return requireRole(next, func(u *domain.AuthenticatedUser) bool {
		return u.Role == domain.RoleAdmin
	})
}

// RequireEditor admits admins and editors.
func RequireEditor(next http.Handler) http.Handler {
	return requireRole(next, func(u *domain.AuthenticatedUser) bool {
		return u.Role == domain.RoleAdmin || u.Role == domain.RoleEditor
	})
}

// RequireActiveEditor admits active editors; admins bypass the active check.
func RequireActiveEditor(next http.Handler) http.Handler {
	return requireRole(next, func(u *domain.AuthenticatedUser) bool {
		if u.Role == domain.RoleAdmin {
			return true
		}
		return u.Role == domain.RoleEditor && u.IsActive
	})
}

func requireRole(next http.Handler, allowed func(*domain.AuthenticatedUser) bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFrom(r.Context())
		if user == nil {
			WriteError(w, r, domain.ErrUnauthorized)
			return
		}
		if !allowed(user) {
			WriteError(w, r, domain.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
