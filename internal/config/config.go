package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pixix4/wallet-pass/internal/logger"
)

// Config holds the settings shared by the signing binaries.
type Config struct {
	// Identity is the path to the password-protected identity bundle (.p12).
	Identity string `yaml:"identity"`
	// IdentityPassword opens the identity bundle. PasswordEnv overrides an empty value.
	IdentityPassword string `yaml:"identity_password,omitempty"`
	// Intermediate is the path to the PEM encoded intermediate authority certificate.
	Intermediate string `yaml:"intermediate"`
	// OutputDir receives archives produced by batch runs.
	OutputDir string `yaml:"output_dir,omitempty"`
	// ListenAddress is the gRPC listen address of the signing server.
	ListenAddress string `yaml:"listen_addr,omitempty"`
	// MetricsAddress serves Prometheus metrics when set.
	MetricsAddress string `yaml:"metrics_addr,omitempty"`
	// BundleRoot confines the bundles the signing server accepts.
	BundleRoot string `yaml:"bundle_root,omitempty"`
	// Timeout bounds remote calls.
	Timeout time.Duration `yaml:"timeout,omitempty"`
	// Concurrency caps the number of pipelines running at once.
	Concurrency int `yaml:"concurrency,omitempty"`
	// MaxMessageBytes bounds gRPC messages, which carry whole archives.
	MaxMessageBytes int `yaml:"max_message_bytes,omitempty"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`
	// ValidateDescriptor turns on the structural pass.json check.
	ValidateDescriptor bool `yaml:"validate_descriptor,omitempty"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "wallet-pass.yaml"

	// PasswordEnv supplies the identity password when the file has none.
	PasswordEnv = "WALLET_PASS_PASSWORD"

	// DefaultListenAddress is used by the signing server when none is configured.
	DefaultListenAddress = "127.0.0.1:50551"

	// DefaultOutputDir is where batch runs write archives.
	DefaultOutputDir = "."

	// DefaultTimeout is the default duration for remote calls.
	DefaultTimeout = 30 * time.Second

	// DefaultConcurrency is the default number of parallel pipelines.
	DefaultConcurrency = 4

	// DefaultMaxMessageBytes fits archives with high resolution artwork.
	DefaultMaxMessageBytes = 64 << 20

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the permission of saved settings, which may hold a password.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errNegativeConcurrency is returned for a concurrency below zero.
	errNegativeConcurrency = errors.New("concurrency must not be negative")
	// errNegativeMaxMessage is returned for a message limit below zero.
	errNegativeMaxMessage = errors.New("max message bytes must not be negative")
	// errUnknownLogLevel is returned for a log level ParseLogLevel rejects.
	errUnknownLogLevel = errors.New("unknown log level")
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := new(Config)
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates it.
// The identity password falls back to PasswordEnv.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	cfg.ApplyEnv()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOptional behaves like Load but returns defaults when path does not exist.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
		cfg.ApplyEnv()

		return cfg, nil
	}

	return cfg, err
}

// ApplyEnv fills the identity password from PasswordEnv when it is empty.
func (c *Config) ApplyEnv() {
	if c.IdentityPassword != "" {
		return
	}

	if password, ok := os.LookupEnv(PasswordEnv); ok {
		c.IdentityPassword = password
	}
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks formats and fills in defaults.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.ListenAddress == "" {
		settings.ListenAddress = DefaultListenAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen address: %w", err)
	}

	if settings.MetricsAddress != "" {
		if _, err := net.ResolveTCPAddr("tcp", settings.MetricsAddress); err != nil {
			return fmt.Errorf("invalid metrics address: %w", err)
		}
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	switch {
	case settings.Concurrency < 0:
		return errNegativeConcurrency
	case settings.Concurrency == 0:
		settings.Concurrency = DefaultConcurrency
	}

	switch {
	case settings.MaxMessageBytes < 0:
		return errNegativeMaxMessage
	case settings.MaxMessageBytes == 0:
		settings.MaxMessageBytes = DefaultMaxMessageBytes
	}

	if settings.OutputDir == "" {
		settings.OutputDir = DefaultOutputDir
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, settings.LogLevel)
	}

	return nil
}
