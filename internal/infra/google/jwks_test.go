package google

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newIssuer(t *testing.T, key *rsa.PublicKey) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"jwks_uri": srv.URL + "/certs"})
	})
	mux.HandleFunc("/certs", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(jwks{Keys: []jwk{{
			Kid: "k1",
			Kty: "RSA",
			Alg: "RS256",
			N:   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}}})
	})
	t.Cleanup(srv.Close)
	return srv
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims Claims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = "k1"
	s, err := tok.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestVerifyIDToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	srv := newIssuer(t, &key.PublicKey)
	v := NewVerifier(srv.URL, "client-123")

	valid := Claims{
		Email:         "asha@example.com",
		EmailVerified: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    srv.URL,
			Subject:   "google-sub-1",
			Audience:  jwt.ClaimStrings{"client-123"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	claims, err := v.VerifyIDToken(context.Background(), signToken(t, key, valid))
	if err != nil {
		t.Fatalf("VerifyIDToken returned error: %v", err)
	}
	if claims.Subject != "google-sub-1" || claims.Email != "asha@example.com" {
		t.Fatalf("claims = %+v", claims)
	}

	cases := map[string]func(c *Claims){
		"wrong_audience": func(c *Claims) { c.Audience = jwt.ClaimStrings{"other"} },
		"expired":        func(c *Claims) { c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute)) },
		"wrong_issuer":   func(c *Claims) { c.Issuer = "https://evil.example.com" },
		"no_subject":     func(c *Claims) { c.Subject = "" },
	}
	for name, mutate := range cases {
		c := valid
		mutate(&c)
		if _, err := v.VerifyIDToken(context.Background(), signToken(t, key, c)); err == nil {
			t.Fatalf("%s: VerifyIDToken returned nil error", name)
		}
	}
}

func TestVerifyIDTokenRejectsForeignKey(t *testing.T) {
	published, _ := rsa.GenerateKey(rand.Reader, 2048)
	attacker, _ := rsa.GenerateKey(rand.Reader, 2048)
	srv := newIssuer(t, &published.PublicKey)
	v := NewVerifier(srv.URL, "client-123")
	tok := signToken(t, attacker, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    srv.URL,
		Subject:   "x",
		Audience:  jwt.ClaimStrings{"client-123"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	if _, err := v.VerifyIDToken(context.Background(), tok); err == nil {
		t.Fatalf("VerifyIDToken accepted a token signed by an unpublished key")
	}
}

func TestIssuerMatches(t *testing.T) {
	cases := []struct {
		got, want string
		match     bool
	}{
		{"accounts.google.com", "https://accounts.google.com", true},
		{"https://accounts.google.com", "https://accounts.google.com", true},
		{"https://accounts.google.com/", "https://accounts.google.com", true},
		{"", "https://accounts.google.com", false},
		{"https://other.example.com", "https://accounts.google.com", false},
	}
	for _, tc := range cases {
		if got := issuerMatches(tc.got, tc.want); got != tc.match {
			t.Fatalf("issuerMatches(%q, %q) = %v, want %v", tc.got, tc.want, got, tc.match)
		}
	}
}
