package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func requestFrom(addr string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = addr
	return req
}

func TestRateLimiterPerClient(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewRateLimiter(1, 2)
	l.now = func() time.Time { return now }
	h := l.Limit(okHandler)

	codes := func(addr string, n int) []int {
		out := make([]int, 0, n)
		for i := 0; i < n; i++ {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, requestFrom(addr))
			out = append(out, w.Code)
		}
		return out
	}

	assert.Equal(t, []int{200, 200, 429}, codes("10.0.0.1:5000", 3))
	assert.Equal(t, []int{200}, codes("10.0.0.2:5000", 1), "other clients have their own bucket")
	assert.Equal(t, []int{429}, codes("10.0.0.1:6000", 1), "port does not matter")

	now = now.Add(time.Second)
	assert.Equal(t, []int{200}, codes("10.0.0.1:5000", 1), "tokens refill over time")
}

func TestRateLimiterSweep(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewRateLimiter(1, 1)
	l.now = func() time.Time { return now }

	l.allow("10.0.0.1")
	now = now.Add(time.Minute)
	l.allow("10.0.0.2")

	now = now.Add(clientIdleTimeout - time.Second)
	l.Sweep()

	_, first := l.clients["10.0.0.1"]
	_, second := l.clients["10.0.0.2"]
	assert.False(t, first)
	assert.True(t, second)
}

func TestClientIP(t *testing.T) {
	assert.Equal(t, "192.0.2.1", clientIP(requestFrom("192.0.2.1:1234")))
	assert.Equal(t, "192.0.2.1", clientIP(requestFrom("192.0.2.1")))
}
