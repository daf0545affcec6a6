package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hcdl/provider-search/internal/platform/fhir"
)

func TestRequestTimeout_CompletesWithinDeadline(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/states", nil), rec)

	called := false
	err := RequestTimeout(5 * time.Second)(func(c echo.Context) error {
		called = true
		if _, ok := c.Request().Context().Deadline(); !ok {
			t.Error("expected a deadline on the request context")
		}
		return c.String(http.StatusOK, "ok")
	})(c)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Errorf("expected handler to answer, got %d", rec.Code)
	}
}

func TestRequestTimeout_ReturnsTimeoutOnExpiry(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/practitioners", nil), rec)

	err := RequestTimeout(20 * time.Millisecond)(func(c echo.Context) error {
		<-c.Request().Context().Done()
		return c.Request().Context().Err()
	})(c)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected status 504, got %d", rec.Code)
	}
	var outcome fhir.OperationOutcome
	if err := json.Unmarshal(rec.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if outcome.ResourceType != "OperationOutcome" || outcome.Issue[0].Code != fhir.IssueTypeTimeout {
		t.Errorf("unexpected outcome %+v", outcome)
	}
}

// The context must not be handed back to echo while the handler still uses it.
func TestRequestTimeout_WaitsForHandler(t *testing.T) {
	e := echo.New()
	e.Use(RequestTimeout(20 * time.Millisecond))

	var finished atomic.Bool
	e.GET("/slow", func(c echo.Context) error {
		<-c.Request().Context().Done()
		time.Sleep(30 * time.Millisecond)
		_ = c.Path()
		err := c.Redirect(http.StatusSeeOther, "/")
		finished.Store(true)
		return err
	})
	e.GET("/fast", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Path())
	})

	slow := httptest.NewRecorder()
	e.ServeHTTP(slow, httptest.NewRequest(http.MethodGet, "/slow", nil))
	if !finished.Load() {
		t.Fatal("middleware returned before the handler finished")
	}
	if slow.Code != http.StatusSeeOther {
		t.Errorf("expected the handler's 303 to stand, got %d", slow.Code)
	}

	fast := httptest.NewRecorder()
	e.ServeHTTP(fast, httptest.NewRequest(http.MethodGet, "/fast", nil))
	if fast.Code != http.StatusOK || fast.Body.String() != "/fast" {
		t.Errorf("unexpected follow-up response %d %q", fast.Code, fast.Body.String())
	}
}

func TestRequestTimeout_PassesOtherErrors(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	boom := errors.New("boom")
	err := RequestTimeout(time.Second)(func(echo.Context) error { return boom })(c)
	if !errors.Is(err, boom) {
		t.Errorf("expected the handler error, got %v", err)
	}
}

func TestRequestTimeout_SkipsPrefixes(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/static/app.css", nil), httptest.NewRecorder())

	err := RequestTimeout(time.Millisecond, "/static/")(func(c echo.Context) error {
		if _, ok := c.Request().Context().Deadline(); ok {
			t.Error("expected no deadline for skipped path")
		}
		return nil
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
