package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks defaults and format validations.
func TestValidate(t *testing.T) {
	t.Parallel()

	settings := new(Config)
	require.NoError(t, Validate(settings))
	require.Equal(t, DefaultListenAddress, settings.ListenAddress)
	require.Equal(t, DefaultTimeout, settings.Timeout)
	require.Equal(t, DefaultConcurrency, settings.Concurrency)
	require.Equal(t, DefaultMaxMessageBytes, settings.MaxMessageBytes)
	require.Equal(t, DefaultOutputDir, settings.OutputDir)
	require.Equal(t, DefaultLogLevel, settings.LogLevel)

	require.Error(t, Validate(&Config{ListenAddress: "bad:address"}))
	require.Error(t, Validate(&Config{MetricsAddress: "bad:address"}))
	require.ErrorIs(t, Validate(&Config{Concurrency: -1}), errNegativeConcurrency)
	require.ErrorIs(t, Validate(&Config{MaxMessageBytes: -1}), errNegativeMaxMessage)
	require.ErrorIs(t, Validate(&Config{LogLevel: "loud"}), errUnknownLogLevel)
	require.ErrorIs(t, Validate(nil), errConfigIsNotSet)

	settings = &Config{ListenAddress: "127.0.0.1:0", MetricsAddress: "127.0.0.1:9102", Timeout: time.Second}
	require.NoError(t, Validate(settings))
	require.Equal(t, time.Second, settings.Timeout)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFilename)

	settings := &Config{
		Identity:           "Certificates.p12",
		IdentityPassword:   "secret",
		Intermediate:       "WWDR.pem",
		OutputDir:          "out",
		BundleRoot:         "/srv/passes",
		Concurrency:        2,
		ValidateDescriptor: true,
	}

	require.NoError(t, Save(path, settings))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings, loaded)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(DefaultFilePermissions), info.Mode().Perm())
}

// TestLoad_PasswordFromEnv checks the environment supplies a missing password.
func TestLoad_PasswordFromEnv(t *testing.T) {
	t.Setenv(PasswordEnv, "from-env")

	dir := t.TempDir()

	withPassword := filepath.Join(dir, "with.yaml")
	require.NoError(t, os.WriteFile(withPassword, []byte("identity: a.p12\nidentity_password: from-file\n"), 0o600))

	cfg, err := Load(withPassword)
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.IdentityPassword)

	without := filepath.Join(dir, "without.yaml")
	require.NoError(t, os.WriteFile(without, []byte("identity: a.p12\ntimeout: 2s\n"), 0o600))

	cfg, err = Load(without)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.IdentityPassword)
	require.Equal(t, 2*time.Second, cfg.Timeout)

	cfg, err = LoadOptional(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.IdentityPassword)
	require.Equal(t, DefaultListenAddress, cfg.ListenAddress)
}

// TestLoad_Errors covers unreadable and malformed files.
func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("concurrency: [1"), 0o600))

	_, err = Load(bad)
	require.Error(t, err)

	_, err = LoadOptional(bad)
	require.Error(t, err)
}
