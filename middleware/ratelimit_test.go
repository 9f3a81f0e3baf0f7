package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisLimiterWindow(t *testing.T) {
	mr, client := newTestRedis(t)
	limiter := NewRedisLimiter(client, "login", 2, time.Hour)
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		ok, err := limiter.Allow(ctx, "10.0.0.1")
		if err != nil {
			t.Fatal(err)
		}
		if ok != want {
			t.Errorf("attempt %d allowed = %v, expected %v", i+1, ok, want)
		}
	}

	// other clients have their own budget
	if ok, _ := limiter.Allow(ctx, "10.0.0.2"); !ok {
		t.Error("second ip was limited")
	}

	if ttl := mr.TTL("ratelimit:login:10.0.0.1"); ttl != time.Hour {
		t.Errorf("window ttl = %v", ttl)
	}
	mr.FastForward(time.Hour + time.Second)
	if ok, _ := limiter.Allow(ctx, "10.0.0.1"); !ok {
		t.Error("budget not restored after the window")
	}
}

func TestMemoryLimiter(t *testing.T) {
	limiter := NewMemoryLimiter(3, time.Hour)
	ctx := context.Background()

	allowed := 0
	for i := 0; i < 5; i++ {
		if ok, _ := limiter.Allow(ctx, "ip"); ok {
			allowed++
		}
	}
	if allowed != 3 {
		t.Errorf("allowed %d requests, expected 3", allowed)
	}
	if ok, _ := limiter.Allow(ctx, "other"); !ok {
		t.Error("separate key was limited")
	}
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func TestRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := RateLimit(NewMemoryLimiter(1, time.Hour), "Too many login attempts", next)

	do := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.1.1.1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	if rec := do("1.2.3.4"); rec.Code != http.StatusOK {
		t.Fatalf("first request = %d", rec.Code)
	}
	rec := do("1.2.3.4")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	if rec := do("5.6.7.8"); rec.Code != http.StatusOK {
		t.Errorf("other client = %d", rec.Code)
	}

	// backend failure lets traffic through
	open := RateLimit(failingLimiter{}, "x", next)
	rec = httptest.NewRecorder()
	open.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("failing limiter status = %d", rec.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded first hop", map[string]string{"X-Forwarded-For": "1.1.1.1, 2.2.2.2"}, "9.9.9.9:1", "1.1.1.1"},
		{"real ip", map[string]string{"X-Real-IP": "3.3.3.3"}, "9.9.9.9:1", "3.3.3.3"},
		{"remote addr", nil, "9.9.9.9:1234", "9.9.9.9"},
		{"remote without port", nil, "9.9.9.9", "9.9.9.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP = %q, expected %q", got, tt.want)
			}
		})
	}
}
