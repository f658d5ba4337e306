package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/FloodSight/backend/internal/app"
	"github.com/GriffinCanCode/FloodSight/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/FloodSight/backend/internal/infrastructure/monitoring"
)

// versionedApp answers with the generation it was built in
type versionedApp struct {
	generation int64
	closed     *atomic.Int64
}

func (a *versionedApp) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "generation %d", a.generation)
}

func (a *versionedApp) Close() error {
	a.closed.Add(1)
	return nil
}

type fixture struct {
	registry *app.Registry
	builds   atomic.Int64
	closed   atomic.Int64
	listens  atomic.Int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{registry: app.NewRegistry()}
	f.registry.MustRegister("main:app", func(app.Options) (app.Application, error) {
		return &versionedApp{generation: f.builds.Add(1), closed: &f.closed}, nil
	})
	return f
}

func (f *fixture) listen(network, address string) (net.Listener, error) {
	f.listens.Add(1)
	return net.Listen(network, address)
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = 2 * time.Second
	return cfg
}

// start runs srv in the background and waits for the listener
func start(t *testing.T, srv *Server) (cancel func() error) {
	t.Helper()
	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	select {
	case <-srv.Ready():
	case err := <-done:
		stop()
		t.Fatalf("server exited early: %v", err)
	case <-time.After(5 * time.Second):
		stop()
		t.Fatal("server did not become ready")
	}

	return func() error {
		stop()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			return errors.New("server did not stop")
		}
	}
}

func get(t *testing.T, srv *Server) string {
	t.Helper()
	resp, err := http.Get("http://" + srv.Addr() + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRunServesAndShutsDown(t *testing.T) {
	f := newFixture(t)
	srv := New(testConfig(), f.registry, WithListenFunc(f.listen))

	stop := start(t, srv)
	assert.Equal(t, "generation 1", get(t, srv))

	require.NoError(t, stop())
	assert.Equal(t, int64(1), f.listens.Load(), "exactly one listen attempt")
	assert.Equal(t, int64(1), f.closed.Load(), "application closed on shutdown")

	_, err := net.DialTimeout("tcp", srv.Addr(), 200*time.Millisecond)
	assert.Error(t, err, "listener released")
}

func TestLoadFailureNeverListens(t *testing.T) {
	f := newFixture(t)
	cfg := testConfig()
	cfg.App.Ref = "main:missing"

	err := New(cfg, f.registry, WithListenFunc(f.listen)).Run(context.Background())

	var loadErr *app.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, app.ReasonAttrNotFound, loadErr.Reason)
	assert.Zero(t, f.listens.Load())
}

func TestBindError(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer occupied.Close()

	f := newFixture(t)
	cfg := testConfig()
	cfg.Server.Port = occupied.Addr().(*net.TCPAddr).Port

	err = New(cfg, f.registry, WithListenFunc(f.listen)).Run(context.Background())

	var bindErr *BindError
	require.True(t, errors.As(err, &bindErr))
	assert.Equal(t, cfg.Server.Addr(), bindErr.Addr)
	assert.Equal(t, int64(1), f.listens.Load(), "no retry")
	assert.Equal(t, int64(1), f.closed.Load(), "loaded application released")
}

func TestReloadSwapsApplication(t *testing.T) {
	f := newFixture(t)
	metrics := monitoring.NewMetrics()
	srv := New(testConfig(), f.registry,
		WithMetrics(metrics),
		WithConfigLoader(func() (*config.Config, error) { return testConfig(), nil }),
	)

	assert.Error(t, srv.Reload(), "reload before Run")

	stop := start(t, srv)
	defer func() { require.NoError(t, stop()) }()

	require.NoError(t, srv.Reload())
	assert.Equal(t, "generation 2", get(t, srv))
	assert.Equal(t, int64(1), f.closed.Load(), "replaced application closed")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Reloads.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.AppLoads.WithLabelValues("main:app", "success")))
}

func TestReloadFailureKeepsApplication(t *testing.T) {
	f := newFixture(t)
	metrics := monitoring.NewMetrics()
	srv := New(testConfig(), f.registry,
		WithMetrics(metrics),
		WithConfigLoader(func() (*config.Config, error) {
			return nil, &config.ConfigurationError{Key: "PORT", Value: "x", Err: errors.New("bad")}
		}),
	)

	stop := start(t, srv)
	defer func() { require.NoError(t, stop()) }()

	assert.Error(t, srv.Reload())
	assert.Equal(t, "generation 1", get(t, srv))
	assert.Zero(t, f.closed.Load())
	assert.Equal(t, int64(1), metrics.Snapshot().FailedReloads)
}

func TestReloadOnFileChange(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t)

	cfg := testConfig()
	cfg.Reload.Enabled = true
	cfg.Reload.Dirs = []string{dir}
	cfg.Reload.Delay = 20 * time.Millisecond

	srv := New(cfg, f.registry, WithConfigLoader(func() (*config.Config, error) { return cfg, nil }))
	stop := start(t, srv)
	defer func() { require.NoError(t, stop()) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644))

	assert.Eventually(t, func() bool {
		return f.builds.Load() >= 2
	}, 5*time.Second, 20*time.Millisecond)
	assert.Eventually(t, func() bool {
		resp, err := http.Get("http://" + srv.Addr() + "/")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return string(body) != "generation 1"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestCompression(t *testing.T) {
	registry := app.NewRegistry()
	registry.MustRegister("main:app", func(app.Options) (app.Application, error) {
		return app.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte(fmt.Sprintf("%02048d", 0)))
		}), nil
	})
	srv := New(testConfig(), registry)
	stop := start(t, srv)
	defer func() { require.NoError(t, stop()) }()

	req, err := http.NewRequest(http.MethodGet, "http://"+srv.Addr()+"/", nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := http.DefaultTransport.RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
}

// failingListener accepts nothing and fails the first Accept
type failingListener struct {
	net.Listener
}

func (l failingListener) Accept() (net.Conn, error) {
	return nil, errors.New("accept failed")
}

func TestServeErrorReleasesApplication(t *testing.T) {
	f := newFixture(t)
	listen := func(network, address string) (net.Listener, error) {
		ln, err := f.listen(network, address)
		if err != nil {
			return nil, err
		}
		return failingListener{Listener: ln}, nil
	}
	srv := New(testConfig(), f.registry, WithListenFunc(listen))

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background()) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "accept failed")
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after serve error")
	}
	assert.Equal(t, int64(1), f.closed.Load(), "application closed")

	w := httptest.NewRecorder()
	srv.serveHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code, "late requests are refused once the application is gone")
}
