package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/pixix4/wallet-pass/internal/errs"
	"github.com/pixix4/wallet-pass/internal/logger"
	pipeline "github.com/pixix4/wallet-pass/internal/signer"
)

// Options controls a batch run.
type Options struct {
	// Bundles are the bundle directories to sign.
	Bundles []string
	// OutputDir receives <stem>.pkpass per bundle.
	OutputDir string
	// Concurrency caps the number of pipelines running at once.
	Concurrency int
	// Force removes existing signing artifacts from every bundle first.
	Force bool
	// ValidateDescriptor checks every pass.json against the schema.
	ValidateDescriptor bool
}

// Outcome reports what happened to one bundle.
type Outcome struct {
	// Bundle is the source bundle directory.
	Bundle string
	// Output is the archive path, set for every scheduled bundle.
	Output string
	// Result is set when the bundle was signed.
	Result *pipeline.Result
	// Err is set when signing failed.
	Err error
	// Skipped is set when the bundle never started because of an earlier failure.
	Skipped bool
}

var (
	// ErrDuplicateOutput is returned when two bundles map to the same archive.
	ErrDuplicateOutput = errors.New("bundles map to the same output archive")

	errNoBundles = errors.New("no bundles given")
)

// Runner signs through a shared pipeline.
type Runner interface {
	SignToFile(ctx context.Context, opts *pipeline.Options, output string) (*pipeline.Result, error)
}

// Run signs opts.Bundles and returns one Outcome per bundle in input order.
// The returned error is the first failure.
func Run(ctx context.Context, runner Runner, opts *Options) ([]Outcome, error) {
	if opts == nil || len(opts.Bundles) == 0 {
		return nil, errNoBundles
	}

	outcomes, err := plan(opts)
	if err != nil {
		return nil, err
	}

	if err = os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, errs.NewIO("create output directory", opts.OutputDir, err)
	}

	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range outcomes {
		if gctx.Err() != nil {
			outcomes[i].Skipped = true
			continue
		}

		out := &outcomes[i]

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				out.Skipped = true
				return nil
			}

			bctx := logger.WithKV(gctx, "output", out.Output)

			result, err := runner.SignToFile(bctx, &pipeline.Options{
				BundlePath:         out.Bundle,
				Force:              opts.Force,
				ValidateDescriptor: opts.ValidateDescriptor,
			}, out.Output)
			if err != nil {
				out.Err = err
				return fmt.Errorf("sign %s: %w", out.Bundle, err)
			}

			out.Result = result
			logger.InfoKV(bctx, "Bundle signed", "bundle", out.Bundle, "bytes", result.ArchiveSize)

			return nil
		})
	}

	if err = g.Wait(); err != nil {
		return outcomes, err
	}

	return outcomes, ctx.Err()
}

// plan maps every bundle to its output archive and rejects collisions.
func plan(opts *Options) ([]Outcome, error) {
	outcomes := make([]Outcome, len(opts.Bundles))
	seen := make(map[string]string, len(opts.Bundles))

	for i, bundle := range opts.Bundles {
		output := filepath.Join(opts.OutputDir, pipeline.DefaultOutputPath(bundle))

		if previous, ok := seen[output]; ok {
			return nil, fmt.Errorf("%w: %s and %s -> %s", ErrDuplicateOutput, previous, bundle, output)
		}

		seen[output] = bundle
		outcomes[i] = Outcome{Bundle: bundle, Output: output}
	}

	return outcomes, nil
}
