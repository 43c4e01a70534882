package ratelimiting_test

import (
	"net/http"
	"runtime"
	"testing"
	"time"

	"github.com/Amund211/pilgrim/internal/ratelimiting"
	"github.com/stretchr/testify/require"
)

type mockedRateLimiter struct {
	t           *testing.T
	expectedKey string
	allowed     bool
}

func (m *mockedRateLimiter) Consume(key string) bool {
	m.t.Helper()
	require.Equal(m.t, m.expectedKey, key)
	return m.allowed
}

func TestTokenBucketRateLimiter(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping test in short mode")
	}
	t.Parallel()

	rateLimiter, stop := ratelimiting.NewTokenBucketRateLimiter(1, 2)
	t.Cleanup(stop)

	require.True(t, rateLimiter.Consume("user2"))

	// Burst of 2
	require.True(t, rateLimiter.Consume("user1"))
	require.True(t, rateLimiter.Consume("user1"))
	require.False(t, rateLimiter.Consume("user1"))

	time.Sleep(1000 * time.Millisecond)
	runtime.Gosched()

	// Refill rate of 1
	require.True(t, rateLimiter.Consume("user1"))
	require.False(t, rateLimiter.Consume("user1"))

	// Burst of 2 - even after refill
	require.True(t, rateLimiter.Consume("user3"))
	require.True(t, rateLimiter.Consume("user3"))
	require.False(t, rateLimiter.Consume("user3"))
}

func TestIPKeyFunc(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"123.123.123.123":       "ip: 123.123.123.123",
		"123.123.123.123:54321": "ip: 123.123.123.123",
		"[::1]:8123":            "ip: ::1",
	}
	for remoteAddr, want := range cases {
		t.Run(remoteAddr, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, want, ratelimiting.IPKeyFunc(&http.Request{RemoteAddr: remoteAddr}))
		})
	}
}

func TestUserIDKeyFunc(t *testing.T) {
	t.Parallel()

	t.Run("present", func(t *testing.T) {
		t.Parallel()
		r := &http.Request{Header: http.Header{"X-User-Id": []string{"my-user"}}}
		require.Equal(t, "user-id: my-user", ratelimiting.UserIDKeyFunc(r))
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "user-id: <missing>", ratelimiting.UserIDKeyFunc(&http.Request{}))
	})

	t.Run("truncated", func(t *testing.T) {
		t.Parallel()
		long := "0123456789012345678901234567890123456789012345678901234567890123456789"
		r := &http.Request{Header: http.Header{"X-User-Id": []string{long}}}
		require.Equal(t, "user-id: "+long[:50], ratelimiting.UserIDKeyFunc(r))
	})
}

func TestRequestBasedRateLimiter(t *testing.T) {
	t.Parallel()

	rateLimiter := &mockedRateLimiter{t: t}
	requestRateLimiter := ratelimiting.NewRequestBasedRateLimiter(rateLimiter, ratelimiting.IPKeyFunc)

	rateLimiter.expectedKey = "ip: 1.1.1.1"
	rateLimiter.allowed = true
	require.True(t, requestRateLimiter.Consume(&http.Request{RemoteAddr: "1.1.1.1"}))
	rateLimiter.allowed = false
	require.False(t, requestRateLimiter.Consume(&http.Request{RemoteAddr: "1.1.1.1"}))

	rateLimiter.expectedKey = "ip: 2.1.1.1"
	rateLimiter.allowed = true
	require.True(t, requestRateLimiter.Consume(&http.Request{RemoteAddr: "2.1.1.1:1234"}))

	require.Equal(t, "ip: 3.1.1.1", requestRateLimiter.KeyFor(&http.Request{RemoteAddr: "3.1.1.1"}))
}
