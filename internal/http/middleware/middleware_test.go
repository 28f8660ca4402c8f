package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"casino_loyalty/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
	service.InitJWT("mw-test-secret")
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAndRequireRole(t *testing.T) {
	r := gin.New()
	r.GET("/me", JWT(), func(c *gin.Context) {
		id, _ := UserID(c)
		c.JSON(200, gin.H{"id": id})
	})
	r.GET("/admin", JWT(), RequireRole(service.RoleAdmin), func(c *gin.Context) { c.Status(200) })

	player, _ := service.GenerateJWT(1, service.RolePlayer)
	admin, _ := service.GenerateJWT(2, service.RoleAdmin)

	cases := []struct {
		path, token string
		want        int
	}{
		{"/me", "", http.StatusUnauthorized},
		{"/me", "garbage", http.StatusUnauthorized},
		{"/me", player, http.StatusOK},
		{"/admin", player, http.StatusForbidden},
		{"/admin", admin, http.StatusOK},
	}
	for _, tc := range cases {
		if w := do(r, http.MethodGet, tc.path, tc.token); w.Code != tc.want {
			t.Fatalf("%s with %q: got %d want %d", tc.path, tc.token, w.Code, tc.want)
		}
	}
}

func TestSimpleRateLimit(t *testing.T) {
	r := gin.New()
	r.GET("/x", SimpleRateLimit(2, time.Minute), func(c *gin.Context) { c.Status(200) })

	for i := 0; i < 2; i++ {
		if w := do(r, http.MethodGet, "/x", ""); w.Code != 200 {
			t.Fatalf("request %d: got %d", i, w.Code)
		}
	}
	if w := do(r, http.MethodGet, "/x", ""); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
}

func TestUserRateLimitFailsOpenWithoutRedis(t *testing.T) {
	SetRedisClient(nil)
	r := gin.New()
	r.POST("/claim", UserRateLimit("claim", 0, time.Minute), func(c *gin.Context) { c.Status(200) })
	if w := do(r, http.MethodPost, "/claim", ""); w.Code != 200 {
		t.Fatalf("expected fail-open 200, got %d", w.Code)
	}
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/x", func(c *gin.Context) { c.Status(200) })

	w := do(r, http.MethodGet, "/x", "")
	if _, err := uuid.Parse(w.Header().Get(RequestIDHeader)); err != nil {
		t.Fatalf("missing request id: %q", w.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	id := uuid.NewString()
	req.Header.Set(RequestIDHeader, id)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get(RequestIDHeader) != id {
		t.Fatalf("incoming request id not kept")
	}
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS("https://casino.example"))
	r.GET("/x", func(c *gin.Context) { c.Status(200) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://casino.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != 204 || w.Header().Get("Access-Control-Allow-Origin") != "https://casino.example" {
		t.Fatalf("unexpected preflight response %d %v", w.Code, w.Header())
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("foreign origin allowed")
	}
}
