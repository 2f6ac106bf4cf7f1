package http

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
)

const (
	csrfCookieName = "paayo_csrf"
	csrfHeaderName = "X-CSRF-Token"
	csrfTokenBytes = 32
	csrfMaxAge     = 86400
)

// csrfExemptPrefixes skip verification entirely: health probes, the SSE
// stream and the external auth provider's own endpoints.
var csrfExemptPrefixes = []string{
	"/api/health",
	"/api/notifications/stream",
	"/api/auth/",
}

// CSRF implements the double-submit cookie scheme. Every response gets a
// readable paayo_csrf cookie; state-changing requests must echo it in the
// X-CSRF-Token header. Comparison is constant-time.
func CSRF(insecureDev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if cookie, err := r.Cookie(csrfCookieName); err == nil {
				token = cookie.Value
			}
			if token == "" {
				minted, err := mintCSRFToken()
				if err != nil {
					http.Error(w, "internal server error", http.StatusInternalServerError)
					return
				}
				token = minted
				http.SetCookie(w, &http.Cookie{
					Name:     csrfCookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   csrfMaxAge,
					Secure:   !insecureDev,
					HttpOnly: false,
					SameSite: http.SameSiteLaxMode,
				})
			}

			if !isStateChanging(r.Method) || isCSRFExempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get(csrfHeaderName)
			if header == "" || !constantTimeEqual(header, token) {
				WriteJSON(w, http.StatusForbidden, errorBody{
					Error:   "forbidden",
					Message: "CSRF token missing or invalid",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func mintCSRFToken() (string, error) {
	buf := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func isStateChanging(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	}
	return false
}

func isCSRFExempt(path string) bool {
	for _, prefix := range csrfExemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// constantTimeEqual collapses lengths first, then XORs byte pairs into an
// accumulator. The result is independent of where the strings differ.
func constantTimeEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	var acc byte
	for i := 0; i < len(a); i++ {
		acc |= a[i] ^ b[i]
	}
	return acc == 0
}
