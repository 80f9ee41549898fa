package main

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denine/artstore/common/logger"
	"github.com/denine/artstore/discovery"
	"github.com/denine/artstore/discovery/inmem"
)

func newTestApp(addr string) (*App, *inmem.Registry) {
	registry := inmem.NewRegistry()
	a := &App{
		registry: registry,
		config: Config{
			ServiceName: "artstore",
			InstanceID:  "artstore-1",
			HTTPAddr:    addr,
		},
		logger: logger.Discard(),
	}
	a.httpServer = a.newHTTPServer(http.NotFoundHandler())
	return a, registry
}

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestApp_StartFailsWhenPortTaken(t *testing.T) {
	ctx := context.Background()
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	a, registry := newTestApp(taken.Addr().String())

	err = a.Start(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen on")

	_, err = registry.Discover(ctx, "artstore")
	assert.ErrorIs(t, err, discovery.ErrNoInstances)

	assert.NoError(t, a.Shutdown(ctx))
	assert.NoError(t, a.Shutdown(ctx))
}

func TestApp_ServeThenShutdown(t *testing.T) {
	ctx := context.Background()
	addr := freeAddr(t)
	a, registry := newTestApp(addr)

	errCh := make(chan error, 1)
	go func() { errCh <- a.Start(ctx) }()

	require.Eventually(t, func() bool {
		_, err := registry.Discover(ctx, "artstore")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + addr + "/anything")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.NoError(t, a.Shutdown(ctx))
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}

	_, err = registry.Discover(ctx, "artstore")
	assert.ErrorIs(t, err, discovery.ErrNoInstances)
}

func TestApp_StartAfterShutdownLeavesNoRegistration(t *testing.T) {
	ctx := context.Background()
	a, registry := newTestApp(freeAddr(t))

	require.NoError(t, a.Shutdown(ctx))
	assert.NoError(t, a.Start(ctx))

	_, err := registry.Discover(ctx, "artstore")
	assert.ErrorIs(t, err, discovery.ErrNoInstances)
}
