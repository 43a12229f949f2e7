package api_test

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/gamenight/internal/api"
	"github.com/mcoot/gamenight/internal/testutil"
)

func TestServer_RunAndShutdown(t *testing.T) {
	cfg := api.DefaultServerConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.ShutdownTimeout = 2 * time.Second

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ping", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	logger, rec := testutil.NewLogRecorder()
	server, err := api.NewServer(handler, cfg, logger)
	require.NoError(t, err)

	hookCalled := make(chan struct{})
	server.OnShutdown(func() { close(hookCalled) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()

	resp, err := http.Get("http://" + server.Addr() + "/ping")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	select {
	case <-hookCalled:
	case <-time.After(time.Second):
		t.Fatal("shutdown hook not called")
	}

	_, ok := rec.Find("HTTP server stopped")
	assert.True(t, ok)
}

func TestServer_AddressInUse(t *testing.T) {
	cfg := api.DefaultServerConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0

	first, err := api.NewServer(http.NotFoundHandler(), cfg, testutil.NopLogger())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = first.Run(ctx) }()

	_, portStr, err := net.SplitHostPort(first.Addr())
	require.NoError(t, err)
	cfg.Port, err = strconv.Atoi(portStr)
	require.NoError(t, err)

	_, err = api.NewServer(http.NotFoundHandler(), cfg, testutil.NopLogger())
	assert.Error(t, err)
}
