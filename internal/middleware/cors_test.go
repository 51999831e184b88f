package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/plinko/internal/config"
)

func TestOriginAllowed(t *testing.T) {
	dev := &config.Config{Environment: "development"}
	prod := &config.Config{Environment: "production", FrontendURL: "https://staging.example.com"}

	cases := []struct {
		cfg    *config.Config
		origin string
		want   bool
	}{
		{dev, "http://localhost:3000", true},
		{dev, "http://127.0.0.1:5173", true},
		{dev, "https://evil.example.com", false},
		{prod, "https://plinko.playmatatu.com", true},
		{prod, "https://staging.example.com", true},
		{prod, "http://localhost:3000", false},
	}
	for _, c := range cases {
		if got := originAllowed(c.cfg, c.origin); got != c.want {
			t.Errorf("%s origin %s: got %v, want %v", c.cfg.Environment, c.origin, got, c.want)
		}
	}
}

func TestWebSocketCORSCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", WebSocketCORSCheck(&config.Config{Environment: "production"}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign origin: status %d, want 403", w.Code)
	}

	plain := httptest.NewRequest(http.MethodGet, "/ws", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, plain)
	if w.Code != http.StatusOK {
		t.Errorf("non-upgrade request: status %d, want 200", w.Code)
	}
}
