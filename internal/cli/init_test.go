package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendwise/internal/config"
)

type fakeServer struct {
	stop     chan struct{}
	listen   error
	shutdown atomic.Bool
}

func newFakeServer() *fakeServer { return &fakeServer{stop: make(chan struct{})} }

func (f *fakeServer) ListenAndServe() error {
	if f.listen != nil {
		return f.listen
	}
	<-f.stop
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(context.Context) error {
	if f.shutdown.CompareAndSwap(false, true) {
		close(f.stop)
	}
	return nil
}

func TestServeStopsOnCancel(t *testing.T) {
	srv := newFakeServer()
	ctx, cancel := context.WithCancel(context.Background())
	var workerDone atomic.Bool

	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, testLogger(), srv, time.Second, func(ctx context.Context) error {
			<-ctx.Done()
			workerDone.Store(true)
			return ctx.Err()
		})
	}()

	cancel()
	require.NoError(t, <-done)
	assert.True(t, srv.shutdown.Load())
	assert.True(t, workerDone.Load())
}

func TestServeReturnsListenError(t *testing.T) {
	srv := newFakeServer()
	srv.listen = errors.New("address in use")

	err := Serve(context.Background(), testLogger(), srv, time.Second)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "address in use")
	assert.True(t, srv.shutdown.Load())
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SPENDWISE_TEST_VAR=hello\n"), 0o600))
	t.Setenv("SPENDWISE_TEST_VAR", "")
	os.Unsetenv("SPENDWISE_TEST_VAR")

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "hello", os.Getenv("SPENDWISE_TEST_VAR"))

	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := SetupLogger(&config.Config{LogLevel: "warn", LogFormat: "json"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = SetupLogger(&config.Config{LogLevel: "loud"}, &buf)
	assert.Error(t, err)
}

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("PORT", "abc")
	_, err := LoadAndValidateConfig("")
	assert.Error(t, err)

	t.Setenv("PORT", "8081")
	cfg, err := LoadAndValidateConfig("")
	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.Port)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
