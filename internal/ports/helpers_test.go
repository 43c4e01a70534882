package ports_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Amund211/pilgrim/internal/domain"
	"github.com/Amund211/pilgrim/internal/ports"
	"github.com/stretchr/testify/require"
)

const testUserID = "0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"

var levels = domain.MustNewLevelTable(domain.PlayerLevels)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func noopMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return next
}

func newAllowedOrigins(t *testing.T) *ports.DomainSuffixes {
	t.Helper()
	allowedOrigins, err := ports.NewDomainSuffixes("pilgrimjourney.app")
	require.NoError(t, err)
	return allowedOrigins
}

func newRequest(t *testing.T, method string, target string, body string) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("X-User-Id", testUserID)
	return req
}

// Route through a mux so path values are populated
func serve(t *testing.T, pattern string, handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, handler)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	return decoded
}
