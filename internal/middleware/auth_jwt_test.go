package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSignAndParseToken(t *testing.T) {
	tok, err := SignToken("secret", "u1", "pro", "user", "csrf-1", time.Hour)
	if err != nil {
		t.Fatalf("SignToken returned error: %v", err)
	}
	claims, err := ParseToken("secret", tok)
	if err != nil {
		t.Fatalf("ParseToken returned error: %v", err)
	}
	if claims.UserID() != "u1" || claims.Plan != "pro" || claims.CSRF != "csrf-1" {
		t.Fatalf("claims = %+v", claims)
	}
	if _, err := ParseToken("other-secret", tok); err == nil {
		t.Fatalf("ParseToken accepted a token signed with another secret")
	}
	expired, _ := SignToken("secret", "u1", "free", "user", "c", -time.Minute)
	if _, err := ParseToken("secret", expired); err == nil {
		t.Fatalf("ParseToken accepted an expired token")
	}
}

func TestParseTokenRejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    TokenIssuer,
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}
	if _, err := ParseToken("secret", tok); err == nil {
		t.Fatalf("ParseToken accepted an unsigned token")
	}
}

func TestAuthJWTMiddleware(t *testing.T) {
	tok, _ := SignToken("secret", "u42", "free", "user", "c", time.Hour)
	var seen string
	h := AuthJWT("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserIDFromContext(r.Context())
	}))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer not.a.token", status: http.StatusUnauthorized},
		{name: "valid", header: "Bearer " + tok, status: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if tc.status == http.StatusUnauthorized {
				var body errorBody
				if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body.Error.Code != "unauthorized" {
					t.Fatalf("error body = %+v, %v", body, err)
				}
			}
		})
	}
	if seen != "u42" {
		t.Fatalf("user id in context = %q", seen)
	}
}

func TestRequireCSRF(t *testing.T) {
	token, err := NewCSRFToken()
	if err != nil {
		t.Fatalf("NewCSRFToken returned error: %v", err)
	}
	if len(token) != 64 {
		t.Fatalf("token length = %d, want 64", len(token))
	}
	claims := &Claims{CSRF: token}
	h := RequireCSRF(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		method string
		header string
		status int
	}{
		{name: "get passes", method: http.MethodGet, status: http.StatusNoContent},
		{name: "post without header", method: http.MethodPost, status: http.StatusForbidden},
		{name: "post wrong header", method: http.MethodPost, header: strings.Repeat("0", 64), status: http.StatusForbidden},
		{name: "post matching header", method: http.MethodPost, header: token, status: http.StatusNoContent},
		{name: "delete matching header", method: http.MethodDelete, header: token, status: http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/v1/notes", nil)
			req = req.WithContext(ContextWithClaims(req.Context(), claims))
			if tc.header != "" {
				req.Header.Set(CSRFHeader, tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	stored := map[string]string{"u-admin": "admin", "u-demoted": "user"}
	lookup := func(_ context.Context, id string) (string, error) {
		if id == "u-broken" {
			return "", errors.New("db down")
		}
		return stored[id], nil
	}
	claims := func(id, role string) *Claims {
		c := &Claims{Role: role}
		c.Subject = id
		return c
	}
	cases := []struct {
		name   string
		lookup RoleLookup
		claims *Claims
		want   int
	}{
		{"no claims", lookup, nil, http.StatusForbidden},
		{"claim only user", nil, claims("u1", "user"), http.StatusForbidden},
		{"claim only admin", nil, claims("u1", "admin"), http.StatusNoContent},
		{"stored admin", lookup, claims("u-admin", "admin"), http.StatusNoContent},
		{"demoted admin with old token", lookup, claims("u-demoted", "admin"), http.StatusForbidden},
		{"deleted user", lookup, claims("u-gone", "admin"), http.StatusForbidden},
		{"lookup failure", lookup, claims("u-broken", "admin"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/v1/admin/stats", nil)
		req = req.WithContext(ContextWithClaims(req.Context(), tc.claims))
		rec := httptest.NewRecorder()
		RequireRole("admin", tc.lookup)(ok).ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%s: status = %d, want %d", tc.name, rec.Code, tc.want)
		}
	}
}
