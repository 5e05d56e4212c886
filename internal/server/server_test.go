package server

import (
	"context"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheDarkness2001/SMS-sub001/internal/bootstrap"
	"github.com/TheDarkness2001/SMS-sub001/internal/config"
)

func TestServe_ShutsDownOnCancel(t *testing.T) {
	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	closed := false
	deps := &bootstrap.Dependencies{}
	deps.SetCacheCloser(func() { closed = true })

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := New(cfg, deps, mux, zerolog.Nop())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.True(t, closed)
}

func TestNew_UsesConfiguredTimeouts(t *testing.T) {
	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.Server.Port = "9191"
	cfg.Server.ReadTimeout = "3s"

	srv := New(cfg, &bootstrap.Dependencies{}, http.NewServeMux(), zerolog.Nop())
	assert.Equal(t, ":9191", srv.http.Addr)
	assert.Equal(t, 3*time.Second, srv.http.ReadTimeout)
	assert.Equal(t, idleTimeout, srv.http.IdleTimeout)
}
