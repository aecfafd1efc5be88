package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campusdesk/campusdesk/internal/api/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := middleware.NewRateLimiter(3, 60)

	t.Run("requests inside the budget pass", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			ok, _, _ := rl.Allow("10.0.0.1")
			assert.True(t, ok)
		}
	})

	t.Run("the request over budget is refused", func(t *testing.T) {
		ok, remaining, reset := rl.Allow("10.0.0.1")
		assert.False(t, ok)
		assert.Zero(t, remaining)
		assert.False(t, reset.IsZero())
	})

	t.Run("callers are counted independently", func(t *testing.T) {
		ok, _, _ := rl.Allow("10.0.0.2")
		assert.True(t, ok)
	})
}

func TestRateLimit(t *testing.T) {
	handler := middleware.RateLimit(2, 60)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	hit := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = ip + ":12345"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusOK, hit("192.0.2.1").Code)
	assert.Equal(t, http.StatusOK, hit("192.0.2.1").Code)

	rr := hit("192.0.2.1")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "2", rr.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, hit("192.0.2.9").Code)
}

func TestRateLimitByUser(t *testing.T) {
	handler := middleware.RateLimitByUser(1, 60)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	hit := func(userID uuid.UUID, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = ip + ":12345"
		if userID != uuid.Nil {
			req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	alice := uuid.New()
	bob := uuid.New()

	t.Run("budget follows the user, not the address", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, hit(alice, "192.0.2.1").Code)
		assert.Equal(t, http.StatusTooManyRequests, hit(alice, "192.0.2.2").Code)
		assert.Equal(t, http.StatusOK, hit(bob, "192.0.2.1").Code)
	})

	t.Run("anonymous requests fall back to the address", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, hit(uuid.Nil, "192.0.2.7").Code)
		assert.Equal(t, http.StatusTooManyRequests, hit(uuid.Nil, "192.0.2.7").Code)
	})
}
