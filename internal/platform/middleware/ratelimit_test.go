package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hcdl/provider-search/internal/platform/fhir"
)

type stepClock struct{ t time.Time }

func (c *stepClock) now() time.Time { return c.t }

func newLimited(cfg RateLimitConfig) (echo.HandlerFunc, *rateLimiterStore, *stepClock) {
	clock := &stepClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := newRateLimiterStore(cfg)
	h := rateLimit(store, clock.now)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	return h, store, clock
}

func hit(h echo.HandlerFunc, ip string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = ip + ":1234"
	rec := httptest.NewRecorder()
	return rec, h(e.NewContext(req, rec))
}

func TestRateLimit_WithinBurst(t *testing.T) {
	h, _, _ := newLimited(RateLimitConfig{RequestsPerSecond: 10, BurstSize: 5})

	for i := 0; i < 5; i++ {
		rec, err := hit(h, "10.0.0.1")
		if err != nil {
			t.Fatalf("request %d: unexpected error %v", i+1, err)
		}
		if rec.Header().Get("X-RateLimit-Limit") != "10" {
			t.Errorf("request %d: unexpected limit header %q", i+1, rec.Header().Get("X-RateLimit-Limit"))
		}
		if got := rec.Header().Get("X-RateLimit-Remaining"); got != strconv.Itoa(4-i) {
			t.Errorf("request %d: remaining = %s, want %d", i+1, got, 4-i)
		}
	}
}

func TestRateLimit_ExceedsLimit(t *testing.T) {
	h, _, _ := newLimited(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 2})
	for i := 0; i < 2; i++ {
		if _, err := hit(h, "10.0.0.1"); err != nil {
			t.Fatalf("request %d: unexpected error %v", i+1, err)
		}
	}

	rec, err := hit(h, "10.0.0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	var outcome fhir.OperationOutcome
	if err := json.Unmarshal(rec.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(outcome.Issue) != 1 || outcome.Issue[0].Code != fhir.IssueTypeThrottled {
		t.Errorf("expected a throttled outcome, got %+v", outcome)
	}
	retry, convErr := strconv.Atoi(rec.Header().Get("Retry-After"))
	if convErr != nil || retry < 1 {
		t.Errorf("expected positive Retry-After, got %q", rec.Header().Get("Retry-After"))
	}

	if rec, _ := hit(h, "10.0.0.2"); rec.Code != http.StatusOK {
		t.Errorf("other clients must have their own bucket, got %d", rec.Code)
	}
}

func TestRateLimit_Refills(t *testing.T) {
	h, _, clock := newLimited(RateLimitConfig{RequestsPerSecond: 2, BurstSize: 1})
	if rec, _ := hit(h, "10.0.0.1"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec, _ := hit(h, "10.0.0.1"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected bucket to be empty, got %d", rec.Code)
	}
	clock.t = clock.t.Add(600 * time.Millisecond)
	if rec, _ := hit(h, "10.0.0.1"); rec.Code != http.StatusOK {
		t.Fatalf("expected refill after 600ms, got %d", rec.Code)
	}
}

func TestRateLimit_EvictsIdleBuckets(t *testing.T) {
	h, store, clock := newLimited(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1, IdleTTL: time.Minute})
	_, _ = hit(h, "10.0.0.1")
	_, _ = hit(h, "10.0.0.2")
	if store.size() != 2 {
		t.Fatalf("expected 2 buckets, got %d", store.size())
	}

	clock.t = clock.t.Add(2 * time.Minute)
	_, _ = hit(h, "10.0.0.3")
	if store.size() != 1 {
		t.Errorf("expected idle buckets to be evicted, %d left", store.size())
	}
}
