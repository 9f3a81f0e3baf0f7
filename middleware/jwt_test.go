package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParse(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 24*time.Hour)
	now := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return now }

	token, err := issuer.Generate(7, "lab_admin", "admin")
	if err != nil {
		t.Fatal(err)
	}
	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "lab_admin" || claims.Role != "admin" {
		t.Errorf("claims = %+v", claims)
	}
	if got := claims.ExpiresAt.Time.Sub(now); got != 24*time.Hour {
		t.Errorf("expiry in %v, expected 24h", got)
	}
}

func TestParseDistinguishesExpiredFromInvalid(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	issuer.now = func() time.Time { return issued }
	expired, err := issuer.Generate(1, "a", "admin")
	if err != nil {
		t.Fatal(err)
	}
	issuer.now = time.Now

	other := NewTokenIssuer("another-secret", time.Hour)
	forged, _ := other.Generate(1, "a", "admin")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": 1})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"expired", expired, ErrExpiredToken},
		{"wrong secret", forged, ErrInvalidToken},
		{"garbage", "not.a.token", ErrInvalidToken},
		{"alg none", unsigned, ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := issuer.Parse(tt.token); err != tt.want {
				t.Errorf("Parse = %v, expected %v", err, tt.want)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	valid, _ := issuer.Generate(3, "spv", "supervisor")

	protected := issuer.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := GetClaims(r)
		WriteJSON(w, http.StatusOK, map[string]string{"username": c.Username})
	}))

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"valid", "Bearer " + valid, http.StatusOK, ""},
		{"lower case scheme", "bearer " + valid, http.StatusOK, ""},
		{"missing", "", http.StatusUnauthorized, "Access token required"},
		{"no scheme", valid, http.StatusUnauthorized, "Access token required"},
		{"invalid", "Bearer abc.def.ghi", http.StatusForbidden, "Invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, expected %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.message == "" {
				return
			}
			var body map[string]any
			json.Unmarshal(rec.Body.Bytes(), &body)
			if body["error"] != tt.message {
				t.Errorf("error = %v, expected %q", body["error"], tt.message)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := issuer.Authenticate(RequireRole([]string{"admin"}, ok))

	tests := []struct {
		role   string
		status int
	}{
		{"admin", http.StatusNoContent},
		{"supervisor", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			token, _ := issuer.Generate(1, "u", tt.role)
			req := httptest.NewRequest(http.MethodDelete, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, expected %d", rec.Code, tt.status)
			}
		})
	}

	// without Authenticate there are no claims at all
	rec := httptest.NewRecorder()
	RequireRole([]string{"admin"}, ok).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("anonymous status = %d", rec.Code)
	}
}
