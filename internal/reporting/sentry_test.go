package reporting

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	t.Run("connection reset by peer", func(t *testing.T) {
		t.Parallel()

		err := `failed to persist points for deadbeef8315465d9d44cfc238c64f71: read tcp [dead:beef:feb1:d745::c001]:64079->[dead:beef::6811:112a]:5432: read: connection reset by peer`
		want := `failed to persist points for <uuid>: read tcp <host>-><host>: read: connection reset by peer`
		require.Equal(t, want, sanitizeError(err))
	})
	t.Run("dashed uuid", func(t *testing.T) {
		t.Parallel()

		err := `failed to load progress for user 01234567-89ab-cdef-0123-456789abcdef: context deadline exceeded`
		want := `failed to load progress for user <uuid>: context deadline exceeded`
		require.Equal(t, want, sanitizeError(err))
	})
	t.Run("ticket id", func(t *testing.T) {
		t.Parallel()

		err := `failed to append agent reply to SUP-1A2B3C4D: ticket not found`
		want := `failed to append agent reply to <ticket>: ticket not found`
		require.Equal(t, want, sanitizeError(err))
	})
	t.Run("misc ipv6", func(t *testing.T) {
		t.Parallel()

		ips := []string{
			`1:2:3:4:5:6:7:8`,
			`1::`,
			`1:2:3:4:5:6:7::`,
			`1::8`,
			`1:2:3:4:5:6::8`,
			`1::7:8`,
			`1:2:3:4:5::7:8`,
			`1::6:7:8`,
			`1:2:3:4::6:7:8`,
			`1::5:6:7:8`,
			`1:2:3::5:6:7:8`,
			`1::4:5:6:7:8`,
			`1:2::4:5:6:7:8`,
			`1::3:4:5:6:7:8`,
			`::2:3:4:5:6:7:8`,
			`::8`,
			`::`,
		}
		for _, ip := range ips {
			t.Run(ip, func(t *testing.T) {
				t.Parallel()

				require.Equal(t, "<host>", sanitizeError(fmt.Sprintf("[%s]:1234", ip)))
			})
		}
	})
}

func TestAddMetaMiddleware(t *testing.T) {
	t.Parallel()

	var meta ReportingMeta
	handler := NewAddMetaMiddleware("progress")(func(w http.ResponseWriter, r *http.Request) {
		meta = MetaFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/progress", nil)
	req.Header.Set("User-Agent", "pilgrim-web/1.0")
	handler(httptest.NewRecorder(), req)

	require.Equal(t, map[string]string{
		"port":       "progress",
		"userAgent":  "pilgrim-web/1.0",
		"methodPath": "GET /v1/progress",
	}, meta.tags)
	require.False(t, meta.startedAt.IsZero())
}
