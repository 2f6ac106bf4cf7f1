package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"paayo-backend/internal/domain"
)

type fakeSessions struct {
	users map[string]*domain.AuthenticatedUser
}

func (f *fakeSessions) ResolveSession(_ context.Context, token string, _ time.Time) (*domain.AuthenticatedUser, error) {
	return f.users[token], nil
}

func TestSessionToken(t *testing.T) {
	tests := []struct {
		name   string
		cookie *http.Cookie
		want   string
	}{
		{
			"plain session cookie",
			&http.Cookie{Name: "paayo_session", Value: "tok-123"},
			"tok-123",
		},
		{
			"signed cookie strips signature",
			&http.Cookie{Name: "better-auth.session_token", Value: "tok-456.sigpart"},
			"tok-456",
		},
		{
			"url encoded value",
			&http.Cookie{Name: "__Secure-better-auth.session_token", Value: "tok%2D789.sig"},
			"tok-789",
		},
		{
			"paayo cookie keeps dots",
			&http.Cookie{Name: "paayo_session", Value: "tok.with.dots"},
			"tok.with.dots",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(tt.cookie)
			assert.Equal(t, tt.want, sessionToken(req))
		})
	}

	t.Run("no cookie", func(t *testing.T) {
		assert.Empty(t, sessionToken(httptest.NewRequest(http.MethodGet, "/", nil)))
	})
}

func TestOptionalSession(t *testing.T) {
	sessions := &fakeSessions{users: map[string]*domain.AuthenticatedUser{
		"good": {ID: "u1", Role: domain.RoleEditor, IsActive: true},
	}}

	var seen *domain.AuthenticatedUser
	h := OptionalSession(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token attaches user", func(t *testing.T) {
		seen = nil
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "paayo_session", Value: "good"})
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.NotNil(t, seen)
		assert.Equal(t, "u1", seen.ID)
	})

	t.Run("unknown token stays anonymous", func(t *testing.T) {
		seen = nil
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "paayo_session", Value: "bad"})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, seen)
	})
}

func TestRoleGates(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	withUser := func(u *domain.AuthenticatedUser) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if u != nil {
			req = req.WithContext(context.WithValue(req.Context(), ctxKeyUser, u))
		}
		return req
	}

	admin := &domain.AuthenticatedUser{ID: "a", Role: domain.RoleAdmin}
	editor := &domain.AuthenticatedUser{ID: "e", Role: domain.RoleEditor, IsActive: true}
	inactiveEditor := &domain.AuthenticatedUser{ID: "i", Role: domain.RoleEditor, IsActive: false}
	plain := &domain.AuthenticatedUser{ID: "p", Role: domain.RoleUser, IsActive: true}

	tests := []struct {
		name string
		mw   func(http.Handler) http.Handler
		user *domain.AuthenticatedUser
		want int
	}{
		{"require user anonymous", RequireUser, nil, http.StatusUnauthorized},
		{"require user signed in", RequireUser, plain, http.StatusOK},
		{"require admin as editor", RequireAdmin, editor, http.StatusForbidden},
		{"require admin as admin", RequireAdmin, admin, http.StatusOK},
		{"require editor as plain user", RequireEditor, plain, http.StatusForbidden},
		{"require editor as editor", RequireEditor, editor, http.StatusOK},
		{"active gate blocks inactive editor", RequireActiveEditor, inactiveEditor, http.StatusForbidden},
		{"active gate passes active editor", RequireActiveEditor, editor, http.StatusOK},
		{"admin bypasses active gate", RequireActiveEditor, admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.mw(ok).ServeHTTP(rec, withUser(tt.user))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
