package integration

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pixix4/wallet-pass/internal/config"
	"github.com/pixix4/wallet-pass/internal/service/server"
	"github.com/pixix4/wallet-pass/internal/testutil"
)

// environment holds credentials and a settings file shared by the binaries' services.
type environment struct {
	dir        string
	bundleRoot string
	configPath string
	creds      *testutil.Credentials
}

func newEnvironment(t *testing.T) *environment {
	t.Helper()

	dir := t.TempDir()
	creds := testutil.WriteCredentials(t, dir, testutil.ValidChain(t))

	bundleRoot := filepath.Join(dir, "bundles")
	require.NoError(t, os.MkdirAll(bundleRoot, 0o755))

	configPath := filepath.Join(dir, config.DefaultConfigFilename)
	require.NoError(t, config.Save(configPath, &config.Config{
		Identity:         creds.IdentityPath,
		IdentityPassword: testutil.Password,
		Intermediate:     creds.IntermediatePath,
		OutputDir:        filepath.Join(dir, "out"),
		BundleRoot:       bundleRoot,
		ListenAddress:    reservePort(t),
		Timeout:          5 * time.Second,
	}))

	return &environment{
		dir:        dir,
		bundleRoot: bundleRoot,
		configPath: configPath,
		creds:      creds,
	}
}

// startGRPC runs the signing server with the environment settings.
// Returns the listen address; the server stops with the test.
func (e *environment) startGRPC(t *testing.T) string {
	t.Helper()

	cfg, err := config.Load(e.configPath)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- server.Run(ctx, &server.Options{ConfigPath: e.configPath})
	}()

	waitForPort(t, cfg.ListenAddress)

	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	return cfg.ListenAddress
}

// reservePort returns address on a free TCP port and closes it.
func reservePort(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	return addr
}

func waitForPort(t *testing.T, addr string) {
	t.Helper()

	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", addr, 50*time.Millisecond)
		if err != nil {
			return false
		}

		_ = conn.Close()

		return true
	}, 5*time.Second, 20*time.Millisecond)
}

// unzip returns the archive entries in order and the file contents by name.
func unzip(t *testing.T, path string) ([]string, map[string][]byte) {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make([]string, 0, len(zr.File))
	files := make(map[string][]byte)

	for _, f := range zr.File {
		names = append(names, f.Name)

		if f.FileInfo().IsDir() {
			continue
		}

		rc, err := f.Open()
		require.NoError(t, err)

		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())

		files[f.Name] = body
	}

	return names, files
}
