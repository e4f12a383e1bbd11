package packager

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/pixix4/wallet-pass/internal/config"
	"github.com/pixix4/wallet-pass/internal/domain/pass"
	"github.com/pixix4/wallet-pass/internal/logger"
	"github.com/pixix4/wallet-pass/internal/service/batch"
	pipeline "github.com/pixix4/wallet-pass/internal/signer"
)

// Credentials override the identity settings of the configuration file.
type Credentials struct {
	// Identity is the path to the identity bundle (.p12).
	Identity string
	// Password opens the identity bundle.
	Password string
	// Intermediate is the path to the PEM intermediate certificate.
	Intermediate string
}

// Options contains inputs for signing a single bundle.
type Options struct {
	Credentials

	// ConfigPath is an optional settings file.
	ConfigPath string
	// Bundle is the bundle directory to sign.
	Bundle string
	// Output is the archive path, derived from Bundle when empty.
	Output string
	// Descriptor is an optional pass.json replacing the bundle's own.
	Descriptor string
	// Force re-signs bundles that already hold signing artifacts.
	Force bool
	// Validate checks the final pass.json against the schema.
	Validate bool
}

// BatchOptions contains inputs for signing many bundles.
type BatchOptions struct {
	Credentials

	// ConfigPath is an optional settings file.
	ConfigPath string
	// Bundles are the bundle directories to sign.
	Bundles []string
	// OutputDir overrides the configured output directory.
	OutputDir string
	// Concurrency overrides the configured pipeline limit.
	Concurrency int
	// Force re-signs bundles that already hold signing artifacts.
	Force bool
	// Validate checks every pass.json against the schema.
	Validate bool
}

// packager signs bundles with credentials resolved from settings and flags.
// It is unexported; callers should use Run or RunBatch.
type packager struct {
	// cfg holds the merged settings.
	cfg *config.Config
	// pipeline signs with the loaded identity.
	pipeline *pipeline.Pipeline
}

var (
	// ErrNoIdentity is returned when no identity or intermediate is configured.
	ErrNoIdentity = errors.New("identity and intermediate certificate must be provided")

	errNoOptions = errors.New("options are not set")
)

// Run signs one bundle.
func Run(ctx context.Context, opts *Options) (*pipeline.Result, error) {
	if opts == nil {
		return nil, errNoOptions
	}

	ctx = logger.WithName(ctx, "signpass")

	pkg, err := newPackager(opts.ConfigPath, &opts.Credentials)
	if err != nil {
		return nil, err
	}

	var descriptor *pass.Pass

	if opts.Descriptor != "" {
		descriptor, err = pass.LoadFile(opts.Descriptor)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opts.Descriptor, err)
		}
	}

	output := opts.Output
	if output == "" {
		output = pipeline.DefaultOutputPath(opts.Bundle)
	}

	result, err := pkg.pipeline.SignToFile(ctx, &pipeline.Options{
		BundlePath:         opts.Bundle,
		Descriptor:         descriptor,
		Force:              opts.Force,
		ValidateDescriptor: opts.Validate || pkg.cfg.ValidateDescriptor,
	}, output)
	if err != nil {
		return nil, err
	}

	printSummary(ctx, output, result)

	return result, nil
}

// RunBatch signs every bundle of opts into the output directory.
func RunBatch(ctx context.Context, opts *BatchOptions) ([]batch.Outcome, error) {
	if opts == nil {
		return nil, errNoOptions
	}

	ctx = logger.WithName(ctx, "signpass-batch")

	pkg, err := newPackager(opts.ConfigPath, &opts.Credentials)
	if err != nil {
		return nil, err
	}

	outputDir := pkg.cfg.OutputDir
	if opts.OutputDir != "" {
		outputDir = opts.OutputDir
	}

	concurrency := pkg.cfg.Concurrency
	if opts.Concurrency > 0 {
		concurrency = opts.Concurrency
	}

	outcomes, err := batch.Run(ctx, pkg.pipeline, &batch.Options{
		Bundles:            opts.Bundles,
		OutputDir:          outputDir,
		Concurrency:        concurrency,
		Force:              opts.Force,
		ValidateDescriptor: opts.Validate || pkg.cfg.ValidateDescriptor,
	})

	for _, outcome := range outcomes {
		switch {
		case outcome.Result != nil:
			printSummary(ctx, outcome.Output, outcome.Result)
		case outcome.Err != nil:
			logger.ErrorKV(ctx, "Bundle failed", "bundle", outcome.Bundle, "error", outcome.Err)
		case outcome.Skipped:
			logger.WarnKV(ctx, "Bundle skipped", "bundle", outcome.Bundle)
		}
	}

	return outcomes, err
}

// newPackager merges creds over the settings file and loads the identity.
func newPackager(configPath string, creds *Credentials) (*packager, error) {
	cfg, err := config.LoadOptional(configPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if creds.Identity != "" {
		cfg.Identity = creds.Identity
	}

	if creds.Password != "" {
		cfg.IdentityPassword = creds.Password
	}

	if creds.Intermediate != "" {
		cfg.Intermediate = creds.Intermediate
	}

	if cfg.Identity == "" || cfg.Intermediate == "" {
		return nil, ErrNoIdentity
	}

	p, err := pipeline.Load(pipeline.Credentials{
		IdentityPath:     cfg.Identity,
		Password:         cfg.IdentityPassword,
		IntermediatePath: cfg.Intermediate,
	})
	if err != nil {
		return nil, err
	}

	return &packager{cfg: cfg, pipeline: p}, nil
}

// printSummary logs where the archive went and how to recognize it.
func printSummary(ctx context.Context, output string, result *pipeline.Result) {
	if abs, err := filepath.Abs(output); err == nil {
		output = abs
	}

	logger.InfoKV(ctx, "Pass archive created",
		"output", output,
		"files", len(result.Manifest),
		"manifest", result.ManifestFingerprint.String(),
		"digest", result.ArchiveDigest.String(),
		"bytes", result.ArchiveSize,
	)
}
