package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/config"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/middleware"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/pkg/logger"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/repository"
)

type authFixture struct {
	handler http.Handler
	tokens  *middleware.TokenIssuer
	slept   []time.Duration
}

func newAuthFixture(t *testing.T, opts AuthOptions) *authFixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := config.Connect("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = config.Close(db) })
	if err := config.Migrations(db); err != nil {
		t.Fatal(err)
	}

	fx := &authFixture{tokens: middleware.NewTokenIssuer("test-secret", 24*time.Hour)}
	store := repository.NewStore(db, logger.Nop(), repository.DefaultOptions())
	h := NewAuthHandler(repository.NewUserRepo(store), fx.tokens, opts)
	h.sleep = func(d time.Duration) { fx.slept = append(fx.slept, d) }

	mux := http.NewServeMux()
	mux.HandleFunc("/api/register", h.Register)
	mux.HandleFunc("/api/login", h.Login)
	mux.Handle("/api/dashboard", fx.tokens.Authenticate(http.HandlerFunc(h.Dashboard)))
	fx.handler = mux
	return fx
}

func register(fx *authFixture, username, password, confirm, role string) (int, map[string]any, error) {
	body := fmt.Sprintf(`{"username":%q,"password":%q,"confirmPassword":%q,"role":%q}`, username, password, confirm, role)
	rec := serve(fx.handler, http.MethodPost, "/api/register", body)
	var out map[string]any
	err := json.Unmarshal(rec.Body.Bytes(), &out)
	return rec.Code, out, err
}

func TestRegisterValidation(t *testing.T) {
	fx := newAuthFixture(t, AuthOptions{})

	tests := []struct {
		name      string
		username  string
		password  string
		confirm   string
		role      string
		status    int
		detailHas string
	}{
		{"ok", "lab_admin", "secret1", "secret1", "admin", http.StatusCreated, ""},
		{"short password", "user_two", "abc", "abc", "admin", http.StatusBadRequest, "password must be at least 6 characters"},
		{"short username", "ab", "secret1", "secret1", "admin", http.StatusBadRequest, "username must be at least 3 characters"},
		{"bad characters", "lab-admin", "secret1", "secret1", "admin", http.StatusBadRequest, "username may only contain"},
		{"mismatch", "user_three", "secret1", "secret2", "admin", http.StatusBadRequest, "passwords do not match"},
		{"unknown role", "user_four", "secret1", "secret1", "operator", http.StatusBadRequest, "role must be one of: admin, supervisor"},
		{"role is case-insensitive", "user_five", "secret1", "secret1", "Supervisor", http.StatusCreated, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body, err := register(fx, tt.username, tt.password, tt.confirm, tt.role)
			if err != nil {
				t.Fatal(err)
			}
			if status != tt.status {
				t.Fatalf("status = %d, expected %d: %v", status, tt.status, body)
			}
			if tt.detailHas == "" {
				return
			}
			details, _ := body["details"].([]any)
			for _, d := range details {
				if strings.Contains(fmt.Sprint(d), tt.detailHas) {
					return
				}
			}
			t.Errorf("details %v do not mention %q", details, tt.detailHas)
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	fx := newAuthFixture(t, AuthOptions{})
	if status, body, _ := register(fx, "lab_admin", "secret1", "secret1", "admin"); status != http.StatusCreated {
		t.Fatalf("first register = %d %v", status, body)
	}
	status, body, _ := register(fx, "lab_admin", "secret1", "secret1", "supervisor")
	if status != http.StatusBadRequest || body["error"] != "username already used" {
		t.Errorf("duplicate register = %d %v", status, body)
	}
}

func TestRegisterStrengthChecks(t *testing.T) {
	fx := newAuthFixture(t, AuthOptions{PasswordStrengthChecks: true})
	status, body, _ := register(fx, "lab_admin", "secret", "secret", "admin")
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d", status)
	}
	if details, _ := body["details"].([]any); len(details) != 2 {
		t.Errorf("details = %v, expected upper case and digit violations", details)
	}
	if status, _, _ := register(fx, "lab_admin", "Secret1", "Secret1", "admin"); status != http.StatusCreated {
		t.Errorf("strong password rejected: %d", status)
	}
}

func TestLoginAndDashboard(t *testing.T) {
	fx := newAuthFixture(t, AuthOptions{FailureDelay: time.Second})
	if status, body, _ := register(fx, "lab_admin", "secret1", "secret1", "admin"); status != http.StatusCreated {
		t.Fatalf("register = %d %v", status, body)
	}

	rec := serve(fx.handler, http.MethodPost, "/api/login", `{"username":"lab_admin","password":"secret1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login = %d %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	token, _ := body["token"].(string)
	claims, err := fx.tokens.Parse(token)
	if err != nil {
		t.Fatalf("token does not parse: %v", err)
	}
	if claims.Username != "lab_admin" || claims.Role != "admin" || claims.UserID == 0 {
		t.Errorf("claims = %+v", claims)
	}
	ttl := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time)
	if ttl != 24*time.Hour {
		t.Errorf("token lifetime = %v", ttl)
	}
	if len(fx.slept) != 0 {
		t.Errorf("successful login slept %v", fx.slept)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	dash := httptest.NewRecorder()
	fx.handler.ServeHTTP(dash, req)
	if dash.Code != http.StatusOK {
		t.Fatalf("dashboard = %d", dash.Code)
	}
	user, _ := decodeBody(t, dash)["user"].(map[string]any)
	if user["username"] != "lab_admin" || user["role"] != "admin" {
		t.Errorf("dashboard user = %v", user)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	fx := newAuthFixture(t, AuthOptions{FailureDelay: time.Second})
	register(fx, "lab_admin", "secret1", "secret1", "admin")

	var messages []any
	for _, body := range []string{
		`{"username":"lab_admin","password":"wrong!"}`,
		`{"username":"nobody","password":"secret1"}`,
	} {
		rec := serve(fx.handler, http.MethodPost, "/api/login", body)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
		messages = append(messages, decodeBody(t, rec)["error"])
	}
	if messages[0] != messages[1] {
		t.Errorf("failure messages differ: %v", messages)
	}
	if len(fx.slept) != 2 || fx.slept[0] != time.Second || fx.slept[1] != time.Second {
		t.Errorf("delays = %v, expected two 1s sleeps", fx.slept)
	}

	rec := serve(fx.handler, http.MethodPost, "/api/login", `{"username":"","password":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty login = %d", rec.Code)
	}
}
