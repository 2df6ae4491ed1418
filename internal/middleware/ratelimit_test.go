package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tropictalks/classhub/internal/config"
)

func rateCtx(e *echo.Echo, ip, path string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = ip + ":4455"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(path)
	return c
}

func TestRateKeyPerClientAndRoute(t *testing.T) {
	e := echo.New()

	a := rateKey("rl", rateCtx(e, "10.0.0.1", "/classes"))
	b := rateKey("rl", rateCtx(e, "10.0.0.2", "/classes"))
	if a == b {
		t.Fatalf("distinct clients share bucket key %q", a)
	}

	c := rateKey("rl", rateCtx(e, "10.0.0.1", "/selections"))
	if a == c {
		t.Fatal("distinct routes share a bucket key")
	}

	if again := rateKey("rl", rateCtx(e, "10.0.0.1", "/classes")); again != a {
		t.Fatalf("key not stable: %q vs %q", a, again)
	}
}

// The limiter runs before authentication, so the bucket key must not
// depend on any identity stored on the context.
func TestRateKeyIgnoresIdentity(t *testing.T) {
	e := echo.New()

	anon := rateCtx(e, "10.0.0.1", "/classes")
	authed := rateCtx(e, "10.0.0.1", "/classes")
	authed.Set("email", "reader@example.com")

	if rateKey("rl", anon) != rateKey("rl", authed) {
		t.Fatal("bucket key changed with context identity")
	}
}

func TestRateLimitDisabledWithoutRedis(t *testing.T) {
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       1,
		RefillTokens:   1,
		RefillInterval: time.Second,
		TTL:            time.Minute,
		Prefix:         "rl",
	}

	e := echo.New()
	called := 0
	h := RateLimit(cfg, nil)(func(c echo.Context) error {
		called++
		return c.NoContent(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		if err := h(e.NewContext(httptest.NewRequest(http.MethodGet, "/classes", nil), rec)); err != nil {
			t.Fatalf("middleware returned error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	}
	if called != 3 {
		t.Fatalf("handler ran %d times, want 3", called)
	}
}
