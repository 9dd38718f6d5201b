package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/stash-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(maxRequests, windowSeconds int) (*RateLimiter, *time.Time) {
	limiter := NewRateLimiter(config.RateLimitConfig{
		Enabled:       true,
		MaxRequests:   maxRequests,
		WindowSeconds: windowSeconds,
	})

	now := time.Now()
	limiter.timeFunc = func() time.Time { return now }
	return limiter, &now
}

func limitedGet(t *testing.T, handler http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter(t *testing.T) {
	t.Parallel()

	t.Run("requests within the limit pass", func(t *testing.T) {
		t.Parallel()

		limiter, _ := newTestLimiter(3, 60)
		handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		for i := 0; i < 3; i++ {
			rec := limitedGet(t, handler, "10.0.0.1:1234")
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("request over the limit is 429 with Retry-After", func(t *testing.T) {
		t.Parallel()

		limiter, _ := newTestLimiter(2, 60)
		handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		limitedGet(t, handler, "10.0.0.1:1234")
		limitedGet(t, handler, "10.0.0.1:1234")
		rec := limitedGet(t, handler, "10.0.0.1:1234")

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
		assert.Contains(t, rec.Body.String(), "Too many requests")
	})

	t.Run("clients are limited independently", func(t *testing.T) {
		t.Parallel()

		limiter, _ := newTestLimiter(1, 60)
		handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		assert.Equal(t, http.StatusOK, limitedGet(t, handler, "10.0.0.1:1234").Code)
		assert.Equal(t, http.StatusTooManyRequests, limitedGet(t, handler, "10.0.0.1:9999").Code)
		assert.Equal(t, http.StatusOK, limitedGet(t, handler, "10.0.0.2:1234").Code)
	})

	t.Run("window slides: old hits stop counting", func(t *testing.T) {
		t.Parallel()

		limiter, now := newTestLimiter(2, 60)
		handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		limitedGet(t, handler, "10.0.0.1:1234")
		limitedGet(t, handler, "10.0.0.1:1234")
		require.Equal(t, http.StatusTooManyRequests, limitedGet(t, handler, "10.0.0.1:1234").Code)

		*now = now.Add(61 * time.Second)
		assert.Equal(t, http.StatusOK, limitedGet(t, handler, "10.0.0.1:1234").Code)
	})

	t.Run("rejected requests do not extend the window", func(t *testing.T) {
		t.Parallel()

		limiter, now := newTestLimiter(1, 60)
		handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		limitedGet(t, handler, "10.0.0.1:1234")
		for i := 0; i < 5; i++ {
			*now = now.Add(time.Second)
			require.Equal(t, http.StatusTooManyRequests, limitedGet(t, handler, "10.0.0.1:1234").Code)
		}

		// The single counted hit ages out on schedule.
		*now = now.Add(56 * time.Second)
		assert.Equal(t, http.StatusOK, limitedGet(t, handler, "10.0.0.1:1234").Code)
	})
}
