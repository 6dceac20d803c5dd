package httpserver

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingRegistrar struct{}

func (pingRegistrar) RegisterRoutes(r chi.Router) {
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("pong"))
	})
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	srv, err := New(&Config{
		ListenAddr:    "127.0.0.1:0",
		Log:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		DrainDuration: time.Millisecond,
	}, pingRegistrar{})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func get(t *testing.T, url string) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestServerRequiresListenAddr(t *testing.T) {
	_, err := New(&Config{})
	assert.Error(t, err)
}

func TestRegistrarRoutesAreMounted(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))
}

func TestDrainTogglesReadiness(t *testing.T) {
	_, ts := newTestServer(t)

	assert.Equal(t, http.StatusOK, get(t, ts.URL+"/livez"))
	assert.Equal(t, http.StatusOK, get(t, ts.URL+"/readyz"))

	assert.Equal(t, http.StatusOK, get(t, ts.URL+"/drain"))
	assert.Equal(t, http.StatusServiceUnavailable, get(t, ts.URL+"/readyz"))
	assert.Equal(t, http.StatusOK, get(t, ts.URL+"/livez"))

	assert.Equal(t, http.StatusOK, get(t, ts.URL+"/undrain"))
	assert.Equal(t, http.StatusOK, get(t, ts.URL+"/readyz"))
}
