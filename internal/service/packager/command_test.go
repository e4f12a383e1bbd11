package packager

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pixix4/wallet-pass/internal/config"
	"github.com/pixix4/wallet-pass/internal/domain/pass"
	"github.com/pixix4/wallet-pass/internal/errs"
	"github.com/pixix4/wallet-pass/internal/testutil"
)

func credentials(t *testing.T) (Credentials, *testutil.Credentials) {
	t.Helper()

	creds := testutil.WriteCredentials(t, t.TempDir(), testutil.ValidChain(t))

	return Credentials{
		Identity:     creds.IdentityPath,
		Password:     testutil.Password,
		Intermediate: creds.IntermediatePath,
	}, creds
}

// TestRun_SignsBundleWithDescriptor signs a bundle and injects a descriptor file.
func TestRun_SignsBundleWithDescriptor(t *testing.T) {
	t.Parallel()

	creds, _ := credentials(t)
	dir := t.TempDir()
	bundle := testutil.WriteBundle(t, dir, "Store.pass", testutil.SampleFiles())

	descriptor := pass.New("Flag", "Example", "pass.com.example.flag", "F-1")
	descriptor.TeamIdentifier = "ASDF1234AS"
	require.NoError(t, pass.Write(dir, descriptor))

	output := filepath.Join(dir, "custom.pkpass")

	result, err := Run(context.Background(), &Options{
		Credentials: creds,
		ConfigPath:  filepath.Join(dir, "absent.yaml"),
		Bundle:      bundle,
		Output:      output,
		Descriptor:  filepath.Join(dir, pass.Filename),
		Validate:    true,
	})
	require.NoError(t, err)
	require.FileExists(t, output)
	require.Len(t, result.Manifest, len(testutil.SampleFiles()))
}

// TestRun_UsesSettingsFile checks credentials may come from the settings file.
func TestRun_UsesSettingsFile(t *testing.T) {
	t.Parallel()

	creds, _ := credentials(t)
	dir := t.TempDir()
	bundle := testutil.WriteBundle(t, dir, "Store.pass", testutil.SampleFiles())

	configPath := filepath.Join(dir, config.DefaultConfigFilename)
	require.NoError(t, config.Save(configPath, &config.Config{
		Identity:         creds.Identity,
		IdentityPassword: creds.Password,
		Intermediate:     creds.Intermediate,
	}))

	output := filepath.Join(dir, "out", "Store.pkpass")
	require.NoError(t, os.MkdirAll(filepath.Dir(output), 0o755))

	_, err := Run(context.Background(), &Options{ConfigPath: configPath, Bundle: bundle, Output: output})
	require.NoError(t, err)
	require.FileExists(t, output)

	_, err = Run(context.Background(), &Options{
		ConfigPath:  configPath,
		Credentials: Credentials{Password: "wrong"},
		Bundle:      bundle,
		Output:      filepath.Join(dir, "wrong.pkpass"),
	})

	kind, ok := errs.CredentialKindOf(err)
	require.True(t, ok)
	require.Equal(t, errs.CredentialPassword, kind)
	require.NoFileExists(t, filepath.Join(dir, "wrong.pkpass"))
}

// TestRun_Errors covers missing identity and bad descriptor files.
func TestRun_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	absent := filepath.Join(dir, "absent.yaml")

	_, err := Run(context.Background(), nil)
	require.ErrorIs(t, err, errNoOptions)

	_, err = Run(context.Background(), &Options{ConfigPath: absent, Bundle: dir})
	require.ErrorIs(t, err, ErrNoIdentity)

	creds, _ := credentials(t)
	bundle := testutil.WriteBundle(t, dir, "Store.pass", testutil.SampleFiles())

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"unknownKey": true}`), 0o600))

	_, err = Run(context.Background(), &Options{
		Credentials: creds,
		ConfigPath:  absent,
		Bundle:      bundle,
		Output:      filepath.Join(dir, "Store.pkpass"),
		Descriptor:  bad,
	})
	require.Error(t, err)
	require.NoFileExists(t, filepath.Join(dir, "Store.pkpass"))
}

// TestRunBatch signs several bundles into the output directory.
func TestRunBatch(t *testing.T) {
	t.Parallel()

	creds, _ := credentials(t)
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	bundles := []string{
		testutil.WriteBundle(t, dir, "One.pass", testutil.SampleFiles()),
		testutil.WriteBundle(t, dir, "Two.pass", testutil.SampleFiles()),
	}

	outcomes, err := RunBatch(context.Background(), &BatchOptions{
		Credentials: creds,
		ConfigPath:  filepath.Join(dir, "absent.yaml"),
		Bundles:     bundles,
		OutputDir:   outDir,
		Concurrency: 2,
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	require.FileExists(t, filepath.Join(outDir, "One.pkpass"))
	require.FileExists(t, filepath.Join(outDir, "Two.pkpass"))

	_, err = RunBatch(context.Background(), nil)
	require.ErrorIs(t, err, errNoOptions)
}
