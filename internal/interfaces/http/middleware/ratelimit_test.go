package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterWindow(t *testing.T) {
	t.Run("counts per key up to the limit", func(t *testing.T) {
		limiter := NewRateLimiter(3, time.Minute)

		assert.True(t, limiter.Allow("alice"))
		assert.True(t, limiter.Allow("alice"))
		assert.True(t, limiter.Allow("alice"))
		assert.False(t, limiter.Allow("alice"), "fourth request in the window is over the limit")

		// A different key has its own budget
		assert.True(t, limiter.Allow("bob"))
	})

	t.Run("window expiry resets the budget", func(t *testing.T) {
		limiter := NewRateLimiter(1, 40*time.Millisecond)

		assert.True(t, limiter.Allow("carol"))
		assert.False(t, limiter.Allow("carol"))

		time.Sleep(50 * time.Millisecond)
		assert.True(t, limiter.Allow("carol"))
	})

	t.Run("remaining tracks consumed requests", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)

		assert.Equal(t, 5, limiter.Remaining("dave"), "untouched key has the full budget")
		limiter.Allow("dave")
		limiter.Allow("dave")
		assert.Equal(t, 3, limiter.Remaining("dave"))
	})

	t.Run("is safe under concurrent hammering", func(t *testing.T) {
		limiter := NewRateLimiter(100, time.Minute)

		var wg sync.WaitGroup
		var mu sync.Mutex
		admitted := 0
		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow("shared") {
					mu.Lock()
					admitted++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 100, admitted, "exactly the limit gets through")
	})
}

func rateLimitedEngine(limiter *RateLimiter) *gin.Engine {
	engine := gin.New()
	engine.Use(RateLimit(limiter))
	engine.GET("/data", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return engine
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("over-limit requests get 429 with an error code", func(t *testing.T) {
		engine := rateLimitedEngine(NewRateLimiter(2, time.Minute))

		var last *httptest.ResponseRecorder
		for i := 0; i < 3; i++ {
			last = httptest.NewRecorder()
			engine.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/data", nil))
		}

		assert.Equal(t, http.StatusTooManyRequests, last.Code)
		assert.Contains(t, last.Body.String(), "RATE_LIMIT_EXCEEDED")
	})

	t.Run("responses expose the remaining budget", func(t *testing.T) {
		engine := rateLimitedEngine(NewRateLimiter(5, time.Minute))

		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/data", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("authenticated users are keyed separately from each other", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)

		engine := gin.New()
		engine.Use(func(c *gin.Context) {
			if user := c.GetHeader("X-Test-User"); user != "" {
				c.Set(JWTUserIDKey, user)
			}
			c.Next()
		})
		engine.Use(RateLimit(limiter))
		engine.GET("/data", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

		send := func(user string) int {
			req := httptest.NewRequest(http.MethodGet, "/data", nil)
			req.Header.Set("X-Test-User", user)
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)
			return rec.Code
		}

		assert.Equal(t, http.StatusOK, send("user-1"))
		assert.Equal(t, http.StatusTooManyRequests, send("user-1"))
		assert.Equal(t, http.StatusOK, send("user-2"), "second user behind the same IP is unaffected")
	})

	t.Run("distinct client IPs do not share a bucket", func(t *testing.T) {
		engine := rateLimitedEngine(NewRateLimiter(1, time.Minute))

		send := func(addr string) int {
			req := httptest.NewRequest(http.MethodGet, "/data", nil)
			req.RemoteAddr = addr
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)
			return rec.Code
		}

		assert.Equal(t, http.StatusOK, send("10.0.0.1:4000"))
		assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:4000"))
		assert.Equal(t, http.StatusOK, send("10.0.0.2:4000"))
	})
}
