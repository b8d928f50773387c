//go:build functional
// +build functional

/*
Package functional provides end to end tests for the router. The tests load
a YAML configuration, start a real HTTP listener, and exercise dispatch over
the wire.
*/
package functional

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/avrouter/internal/config"
	"github.com/vyrodovalexey/avrouter/internal/observability"
	"github.com/vyrodovalexey/avrouter/internal/router"
	"github.com/vyrodovalexey/avrouter/internal/server"
)

// GetFreePort returns an available TCP port on the loopback interface.
func GetFreePort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = l.Close() }()

	return l.Addr().(*net.TCPAddr).Port
}

// WaitForServer blocks until the address accepts connections or the timeout
// elapses.
func WaitForServer(t *testing.T, addr string, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err == nil {
			_ = conn.Close()
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("server at %s did not become ready within %s", addr, timeout)
}

// WriteConfigFile writes a router configuration to a temporary file and
// returns its path.
func WriteConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "router.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// StartServerFromConfig builds the route table from the configuration file
// at path, starts a server on a free port, and returns its base URL.
func StartServerFromConfig(t *testing.T, path string) string {
	t.Helper()

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	port := GetFreePort(t)
	cfg.Server.Address = fmt.Sprintf("127.0.0.1:%d", port)

	logger := observability.NopLogger()
	metrics := observability.NewMetrics("functional")
	dispatchMetrics := router.NewMetrics("functional")
	metrics.AddGatherer(dispatchMetrics.Registry())

	table, err := server.BuildRouter(cfg.Routes, logger, dispatchMetrics)
	require.NoError(t, err)

	srv := server.New(cfg, table, logger, server.WithMetrics(metrics))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = srv.Start(ctx) }()

	WaitForServer(t, cfg.Server.Address, 5*time.Second)
	return "http://" + cfg.Server.Address
}
