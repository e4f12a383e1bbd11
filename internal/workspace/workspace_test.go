package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pixix4/wallet-pass/internal/errs"
	"github.com/pixix4/wallet-pass/internal/testutil"
)

// TestOpen_CopiesContentOnly verifies bundle children become workspace children.
func TestOpen_CopiesContentOnly(t *testing.T) {
	t.Parallel()

	bundle := testutil.WriteBundle(t, t.TempDir(), "Store.pass", testutil.SampleFiles())

	ws, err := Open(context.Background(), bundle, WithTempDir(t.TempDir()))
	require.NoError(t, err)

	t.Cleanup(func() { _ = ws.Close() })

	for rel, contents := range testutil.SampleFiles() {
		data, err := os.ReadFile(ws.Path(rel))
		require.NoError(t, err, rel)
		require.Equal(t, contents, string(data))
	}

	_, err = os.Stat(ws.Path("Store.pass"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestOpen_UniqueDirectories checks two workspaces of the same bundle never collide.
func TestOpen_UniqueDirectories(t *testing.T) {
	t.Parallel()

	bundle := testutil.WriteBundle(t, t.TempDir(), "b", map[string]string{"pass.json": "{}"})

	a, err := Open(context.Background(), bundle)
	require.NoError(t, err)
	defer a.Close()

	b, err := Open(context.Background(), bundle)
	require.NoError(t, err)
	defer b.Close()

	require.NotEqual(t, a.Root(), b.Root())
}

// TestClose_RemovesTree ensures Close deletes everything and is idempotent.
func TestClose_RemovesTree(t *testing.T) {
	t.Parallel()

	bundle := testutil.WriteBundle(t, t.TempDir(), "b", testutil.SampleFiles())

	ws, err := Open(context.Background(), bundle)
	require.NoError(t, err)

	require.NoError(t, ws.Close())
	require.NoError(t, ws.Close())

	_, err = os.Stat(ws.Root())
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestClose_RemoverFailure keeps the workspace open after a failed removal.
func TestClose_RemoverFailure(t *testing.T) {
	t.Parallel()

	bundle := testutil.WriteBundle(t, t.TempDir(), "b", testutil.SampleFiles())
	boom := errors.New("device busy")
	calls := 0

	ws, err := Open(context.Background(), bundle, WithTempDir(t.TempDir()), WithRemover(func(path string) error {
		calls++
		if calls == 1 {
			return boom
		}

		return os.RemoveAll(path)
	}))
	require.NoError(t, err)

	err = ws.Close()
	require.ErrorIs(t, err, boom)

	var ioErr *errs.IOError
	require.ErrorAs(t, err, &ioErr)

	_, err = os.Stat(ws.Root())
	require.NoError(t, err)

	require.NoError(t, ws.Close())

	_, err = os.Stat(ws.Root())
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestOpen_Failures covers a missing source, a file source, and a failing copy.
func TestOpen_Failures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := Open(context.Background(), filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err = Open(context.Background(), file)

	var ioErr *errs.IOError
	require.ErrorAs(t, err, &ioErr)

	tempDir := t.TempDir()
	boom := errors.New("disk full")

	_, err = Open(context.Background(), dir, WithTempDir(tempDir), WithCopier(CopierFunc(func(_, dst string) error {
		require.NoError(t, os.WriteFile(filepath.Join(dst, "half"), nil, 0o644))
		return boom
	})))
	require.ErrorIs(t, err, boom)

	leftovers, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	require.Empty(t, leftovers, "partial workspace must be removed")
}

// TestRemoveMetadataFiles deletes marker files at any depth and keeps pass content.
func TestRemoveMetadataFiles(t *testing.T) {
	t.Parallel()

	files := testutil.SampleFiles()
	files[".DS_Store"] = "junk"
	files["en.lproj/.DS_Store"] = "junk"

	bundle := testutil.WriteBundle(t, t.TempDir(), "b", files)

	ws, err := Open(context.Background(), bundle)
	require.NoError(t, err)
	defer ws.Close()

	removed, err := ws.RemoveMetadataFiles()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{".DS_Store", "en.lproj/.DS_Store"}, removed)

	_, err = os.Stat(ws.Path("en.lproj/pass.strings"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(bundle, ".DS_Store"))
	require.NoError(t, err, "source bundle is untouched")
}
