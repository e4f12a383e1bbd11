package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pixix4/wallet-pass/internal/errs"
	"github.com/pixix4/wallet-pass/internal/manifest"
	pipeline "github.com/pixix4/wallet-pass/internal/signer"
	"github.com/pixix4/wallet-pass/internal/testutil"
)

func newPipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()

	creds := testutil.WriteCredentials(t, t.TempDir(), testutil.ValidChain(t))

	p, err := pipeline.Load(pipeline.Credentials{
		IdentityPath:     creds.IdentityPath,
		Password:         testutil.Password,
		IntermediatePath: creds.IntermediatePath,
	})
	require.NoError(t, err)

	return p
}

// TestRun_SignsEveryBundle signs several bundles concurrently.
func TestRun_SignsEveryBundle(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")

	var bundles []string
	for _, name := range []string{"A.pass", "B.pass", "C.pass", "D.pass"} {
		bundles = append(bundles, testutil.WriteBundle(t, parent, name, testutil.SampleFiles()))
	}

	outcomes, err := Run(context.Background(), newPipeline(t), &Options{
		Bundles:     bundles,
		OutputDir:   outDir,
		Concurrency: 2,
	})
	require.NoError(t, err)
	require.Len(t, outcomes, len(bundles))

	for i, outcome := range outcomes {
		require.Equal(t, bundles[i], outcome.Bundle)
		require.NoError(t, outcome.Err)
		require.False(t, outcome.Skipped)
		require.NotNil(t, outcome.Result)

		info, err := os.Stat(outcome.Output)
		require.NoError(t, err)
		require.Equal(t, outcome.Result.ArchiveSize, info.Size())
	}

	require.FileExists(t, filepath.Join(outDir, "C.pkpass"))
}

// TestRun_StopsAfterFailure checks later bundles are skipped once one fails.
func TestRun_StopsAfterFailure(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	signed := testutil.SampleFiles()
	signed[manifest.Filename] = "{}"

	bundles := []string{
		testutil.WriteBundle(t, parent, "Signed.pass", signed),
		testutil.WriteBundle(t, parent, "B.pass", testutil.SampleFiles()),
		testutil.WriteBundle(t, parent, "C.pass", testutil.SampleFiles()),
	}

	outDir := t.TempDir()

	outcomes, err := Run(context.Background(), newPipeline(t), &Options{
		Bundles:     bundles,
		OutputDir:   outDir,
		Concurrency: 1,
	})
	require.ErrorIs(t, err, errs.ErrAlreadySigned)
	require.ErrorIs(t, outcomes[0].Err, errs.ErrAlreadySigned)

	for _, outcome := range outcomes[1:] {
		require.True(t, outcome.Skipped, outcome.Bundle)
		require.Nil(t, outcome.Result)
	}

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

type countingRunner struct {
	calls atomic.Int32
	fail  error
}

func (c *countingRunner) SignToFile(context.Context, *pipeline.Options, string) (*pipeline.Result, error) {
	c.calls.Add(1)

	if c.fail != nil {
		return nil, c.fail
	}

	return &pipeline.Result{}, nil
}

// TestRun_Validation covers empty input, output collisions and cancellation.
func TestRun_Validation(t *testing.T) {
	t.Parallel()

	runner := new(countingRunner)

	_, err := Run(context.Background(), runner, &Options{})
	require.ErrorIs(t, err, errNoBundles)

	_, err = Run(context.Background(), runner, &Options{
		Bundles:   []string{"a/Event.pass", "b/Event.pass"},
		OutputDir: t.TempDir(),
	})
	require.ErrorIs(t, err, ErrDuplicateOutput)
	require.Zero(t, runner.calls.Load())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := Run(ctx, runner, &Options{
		Bundles:   []string{"One.pass", "Two.pass"},
		OutputDir: t.TempDir(),
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, runner.calls.Load())

	for _, outcome := range outcomes {
		require.True(t, outcome.Skipped)
	}

	runner.fail = errors.New("boom")

	_, err = Run(context.Background(), runner, &Options{
		Bundles:   []string{"One.pass"},
		OutputDir: t.TempDir(),
	})
	require.ErrorIs(t, err, runner.fail)
}
