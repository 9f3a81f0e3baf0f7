package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/pkg/apierr"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/pkg/logger"
)

func TestRequestLoggerSetsRequestID(t *testing.T) {
	var seen string
	h := RequestLogger(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusAccepted)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get("X-Request-ID") != seen {
		t.Errorf("request id %q, header %q", seen, rec.Header().Get("X-Request-ID"))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "abc-123" {
		t.Errorf("incoming request id not kept: %q", seen)
	}
}

func TestRequestLoggerRecoversPanics(t *testing.T) {
	h := RequestLogger(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %s", rec.Body.String())
	}
	if body["error"] != "internal server error" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestWriteErrorDetail(t *testing.T) {
	defer func(prev bool) { ExposeErrorDetail = prev }(ExposeErrorDetail)

	tests := []struct {
		name       string
		expose     bool
		err        error
		status     int
		wantDetail bool
	}{
		{"validation has details only", true, apierr.Validation("bad", "tanggal is required"), 400, false},
		{"persistence in development", true, apierr.Persistence(errors.New("pq: relation missing")), 500, true},
		{"persistence in production", false, apierr.Persistence(errors.New("pq: relation missing")), 500, false},
		{"unclassified", false, errors.New("surprise"), 500, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ExposeErrorDetail = tt.expose
			rec := httptest.NewRecorder()
			WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			if rec.Code != tt.status {
				t.Fatalf("status = %d", rec.Code)
			}
			var body map[string]any
			json.Unmarshal(rec.Body.Bytes(), &body)
			if _, ok := body["error"].(string); !ok {
				t.Errorf("missing error string: %v", body)
			}
			if _, ok := body["detail"]; ok != tt.wantDetail {
				t.Errorf("detail present = %v, expected %v (%v)", ok, tt.wantDetail, body)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	called := false
	h := CORS("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/qc-analisa", nil))
	if rec.Code != http.StatusOK || called {
		t.Errorf("preflight status = %d, next called = %v", rec.Code, called)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("allow origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
