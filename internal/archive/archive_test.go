package archive

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"

	"github.com/pixix4/wallet-pass/internal/errs"
	"github.com/pixix4/wallet-pass/internal/testutil"
)

func readEntries(t *testing.T, data []byte) map[string]*zip.File {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	entries := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		entries[f.Name] = f
	}

	return entries
}

// TestPack_FilesAndDirectories checks methods, modes and names of every entry.
func TestPack_FilesAndDirectories(t *testing.T) {
	t.Parallel()

	files := testutil.SampleFiles()
	root := testutil.WriteBundle(t, t.TempDir(), "ws", files)

	var buf bytes.Buffer

	names, err := Pack(root, &buf)
	require.NoError(t, err)
	require.Len(t, names, len(files)+2)

	entries := readEntries(t, buf.Bytes())
	require.Len(t, entries, len(files)+2)
	require.NotContains(t, entries, "")
	require.NotContains(t, entries, "./")

	for _, dir := range []string{"de.lproj/", "en.lproj/"} {
		require.Contains(t, entries, dir)
		require.True(t, entries[dir].Mode().IsDir())
	}

	for rel, contents := range files {
		f := entries[rel]
		require.NotNil(t, f, rel)
		require.Equal(t, zip.Deflate, f.Method)
		require.Equal(t, EntryMode, f.Mode().Perm())

		rc, err := f.Open()
		require.NoError(t, err)

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		require.Equal(t, contents, string(data))
	}
}

// TestPack_Deterministic packs the same tree twice and expects identical bytes.
func TestPack_Deterministic(t *testing.T) {
	t.Parallel()

	root := testutil.WriteBundle(t, t.TempDir(), "ws", testutil.SampleFiles())

	var first, second bytes.Buffer

	_, err := Pack(root, &first)
	require.NoError(t, err)

	_, err = Pack(root, &second)
	require.NoError(t, err)
	require.Equal(t, first.Bytes(), second.Bytes())
}

// TestPack_RootMustBeDirectory returns ArchiveError for missing or non-directory roots.
func TestPack_RootMustBeDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := Pack(filepath.Join(dir, "missing"), io.Discard)
	require.ErrorIs(t, err, errs.ErrArchive)

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err = Pack(file, io.Discard)

	var archiveErr *errs.ArchiveError
	require.ErrorAs(t, err, &archiveErr)
	require.Equal(t, file, archiveErr.Path)
}

// TestPack_EmptyDirectory yields a valid archive without any entry.
func TestPack_EmptyDirectory(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	names, err := Pack(t.TempDir(), &buf)
	require.NoError(t, err)
	require.Empty(t, names)
	require.Empty(t, readEntries(t, buf.Bytes()))
}
