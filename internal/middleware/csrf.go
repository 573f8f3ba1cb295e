package middleware

import (
	"crypto/hmac"
	"crypto/rand"
	"encoding/hex"
	"net/http"
)

// CSRFHeader carries the per-session token on mutating requests.
const CSRFHeader = "X-CSRF-Token"

// NewCSRFToken returns 32 random bytes, hex encoded.
func NewCSRFToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// RequireCSRF checks the CSRF header against the token embedded in the
// session claims. Safe methods pass through. Must run after AuthJWT.
func RequireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}
		claims := ClaimsFromContext(r.Context())
		got := r.Header.Get(CSRFHeader)
		if claims == nil || claims.CSRF == "" || got == "" || !hmac.Equal([]byte(got), []byte(claims.CSRF)) {
			writeError(w, http.StatusForbidden, "forbidden", "csrf token mismatch")
			return
		}
		next.ServeHTTP(w, r)
	})
}
