package connection

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"teamhub/testkit"
)

func TestNewRouterMountsAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := testkit.New(t, nil)
	router, err := NewRouter(h.Env)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	testkit.Expect(t, testkit.Do(t, router, http.MethodGet, "/", "", nil), http.StatusOK)

	protected := []struct{ method, path string }{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodGet, "/api/users/search"},
		{http.MethodGet, "/api/teams"},
		{http.MethodPost, "/api/teams/join"},
		{http.MethodGet, "/api/teams/t1/notes"},
		{http.MethodGet, "/api/teams/t1/tasks"},
		{http.MethodPost, "/api/video/token"},
	}
	for _, p := range protected {
		testkit.Expect(t, testkit.Do(t, router, p.method, p.path, "", nil), http.StatusUnauthorized)
	}
}

func TestCORSConfig(t *testing.T) {
	if cfg := corsConfig([]string{"*"}); !cfg.AllowAllOrigins || cfg.AllowCredentials {
		t.Fatalf("wildcard config = %+v", cfg)
	}
	cfg := corsConfig([]string{"https://app.example"})
	if cfg.AllowAllOrigins || !cfg.AllowCredentials || len(cfg.AllowOrigins) != 1 {
		t.Fatalf("explicit config = %+v", cfg)
	}
}

func TestOpenMemoryStore(t *testing.T) {
	db, err := OpenStore(t.Context(), testkit.Config().Store)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer db.Close()
}

func loginFrom(t *testing.T, router http.Handler, forwardedFor string) int {
	t.Helper()
	body := `{"email":"nobody@example.com","password":"secret1"}`
	req, err := http.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.RemoteAddr = "192.0.2.1:1234"
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	return testkit.Serve(router, req).Code
}

func TestAuthRateLimitIgnoresForwardedFor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testkit.Config()
	cfg.Auth.RateLimitPerSec = 0.001
	cfg.Auth.RateLimitBurst = 2
	h := testkit.New(t, cfg)
	router, err := NewRouter(h.Env)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	counts := map[int]int{}
	for i := 0; i < 20; i++ {
		counts[loginFrom(t, router, fmt.Sprintf("203.0.113.%d", i+1))]++
	}
	if counts[http.StatusUnauthorized] != 2 || counts[http.StatusTooManyRequests] != 18 {
		t.Fatalf("status counts = %v, want 2x401 and 18x429", counts)
	}
}

func TestAuthRateLimitTrustedProxy(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testkit.Config()
	cfg.Auth.RateLimitPerSec = 0.001
	cfg.Auth.RateLimitBurst = 2
	cfg.TrustedProxies = []string{"192.0.2.1"}
	h := testkit.New(t, cfg)
	router, err := NewRouter(h.Env)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	for i := 0; i < 2; i++ {
		if got := loginFrom(t, router, "203.0.113.7"); got != http.StatusUnauthorized {
			t.Fatalf("attempt %d = %d, want 401", i, got)
		}
	}
	if got := loginFrom(t, router, "203.0.113.7"); got != http.StatusTooManyRequests {
		t.Fatalf("third attempt from same client = %d, want 429", got)
	}
	if got := loginFrom(t, router, "203.0.113.8"); got != http.StatusUnauthorized {
		t.Fatalf("other client behind proxy = %d, want 401", got)
	}
}
