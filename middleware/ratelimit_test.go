package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)

	for i := 0; i < 5; i++ {
		if !rl.allow("192.168.1.1") {
			t.Fatalf("request %d should have been allowed", i+1)
		}
	}
}

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.allow("192.168.1.1") {
			t.Fatalf("request %d should have been allowed", i+1)
		}
	}

	if rl.allow("192.168.1.1") {
		t.Fatal("request over the limit should have been blocked")
	}
}

func TestRateLimiterRefillsTokens(t *testing.T) {
	// 10 tokens per second means one token refills every 100ms
	rl := NewRateLimiter(10, time.Second)

	for i := 0; i < 10; i++ {
		rl.allow("192.168.1.1")
	}
	if rl.allow("192.168.1.1") {
		t.Fatal("bucket should be empty")
	}

	time.Sleep(150 * time.Millisecond)

	if !rl.allow("192.168.1.1") {
		t.Fatal("expected a token to have refilled after waiting")
	}
}

func TestRateLimiterSeparatesClients(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	rl.allow("10.0.0.1")
	rl.allow("10.0.0.1")
	if rl.allow("10.0.0.1") {
		t.Fatal("first client should be exhausted")
	}

	if !rl.allow("10.0.0.2") {
		t.Fatal("second client should have its own bucket")
	}
}

func TestRateLimiterMiddlewareReturns429(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(2, time.Minute)
	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "203.0.113.1:1234"
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected status 200, got %d", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "203.0.113.1:1234"
	r.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", w.Code)
	}
}
