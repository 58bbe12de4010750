package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type memoryRateLimiter struct {
	counts map[string]int64
}

func (m *memoryRateLimiter) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	if m.counts == nil {
		m.counts = map[string]int64{}
	}
	m.counts[key]++
	return m.counts[key], nil
}

func TestAuthRateLimitBlocksEmailAfterLimit(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 2)
	store := &memoryRateLimiter{}
	calls := 0
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	body := `{"email":"Shopper@Example.com","password":"secret"}`
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, req)
	}

	if calls != 2 {
		t.Fatalf("expected 2 requests through, got %d", calls)
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on third attempt, got %d", last.Code)
	}
}

func TestAuthRateLimitBlocksIPAfterLimit(t *testing.T) {
	policy := NewAuthRateLimitPolicy("register", time.Minute, 1, 0)
	store := &memoryRateLimiter{}
	calls := 0
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{}`))
		req.RemoteAddr = "10.0.0.9:51000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if i == 1 && w.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429 on second attempt, got %d", w.Code)
		}
	}

	if calls != 1 {
		t.Fatalf("expected 1 request through, got %d", calls)
	}
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", 0, 0, 0)
	calls := 0
	handler := AuthRateLimit(policy, &memoryRateLimiter{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`))
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
	if calls != 5 {
		t.Fatalf("disabled policy must not block, got %d", calls)
	}
}
