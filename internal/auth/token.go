package auth

import (
	"net/http"
	"strings"
)

const accessTokenCookie = "access_token"

func ExtractAccessToken(r *http.Request) string {
	// 1️⃣ Cookie (preferred)
	if cookie, err := r.Cookie(accessTokenCookie); err == nil {
		if cookie.Value != "" {
			return cookie.Value
		}
	}

	// 2️⃣ Authorization header (fallback)
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

// ForwardAuthorization returns the Authorization value to relay upstream.
// A non-blank incoming header is passed through untouched so non-Bearer
// schemes (e.g. "Token ...") keep working; otherwise the session cookie is
// translated into a Bearer header.
func ForwardAuthorization(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.TrimSpace(h) != "" {
		return h
	}
	if cookie, err := r.Cookie(accessTokenCookie); err == nil && cookie.Value != "" {
		return "Bearer " + cookie.Value
	}
	return ""
}
