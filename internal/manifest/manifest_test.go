package manifest

import (
	"crypto/sha1" //nolint:gosec // Expected values follow the pass format.
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pixix4/wallet-pass/internal/testutil"
)

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s)) //nolint:gosec // Test mirror of the production digest.
	return hex.EncodeToString(sum[:])
}

// TestBuild_DigestsEveryFile checks keys are slash-separated relative paths and values are SHA-1 hex.
func TestBuild_DigestsEveryFile(t *testing.T) {
	t.Parallel()

	files := testutil.SampleFiles()
	root := testutil.WriteBundle(t, t.TempDir(), "Store.pass", files)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

	m, err := Build(root)
	require.NoError(t, err)
	require.Len(t, m, len(files))

	for rel, contents := range files {
		require.Equal(t, sha1Hex(contents), m[rel], rel)
	}

	require.NotContains(t, m, "empty")
	require.Contains(t, m, "de.lproj/pass.strings")
	require.Equal(t, "da39a3ee5e6b4b0d3255bfef95601890afd80709", sha1Hex(""))
}

// TestBuild_SameNameInSubdirectories keeps files with equal base names apart.
func TestBuild_SameNameInSubdirectories(t *testing.T) {
	t.Parallel()

	root := testutil.WriteBundle(t, t.TempDir(), "b", map[string]string{
		"en.lproj/logo.png": "english",
		"fr.lproj/logo.png": "french",
		"logo.png":          "root",
	})

	m, err := Build(root)
	require.NoError(t, err)
	require.Equal(t, Manifest{
		"en.lproj/logo.png": sha1Hex("english"),
		"fr.lproj/logo.png": sha1Hex("french"),
		"logo.png":          sha1Hex("root"),
	}, m)
	require.Equal(t, []string{"en.lproj/logo.png", "fr.lproj/logo.png", "logo.png"}, m.Paths())
}

// TestBuild_MissingRoot reports the walk failure.
func TestBuild_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := Build(filepath.Join(t.TempDir(), "gone"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestWrite_DoesNotDigestItself writes the manifest and rebuilds to show it was absent at build time.
func TestWrite_DoesNotDigestItself(t *testing.T) {
	t.Parallel()

	root := testutil.WriteBundle(t, t.TempDir(), "b", map[string]string{"pass.json": "{}"})

	m, err := Build(root)
	require.NoError(t, err)

	path, err := m.Write(root)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, Filename), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "{\n  \"pass.json\": \""+sha1Hex("{}")+"\"\n}", string(data))

	parsed, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, m, parsed)
	require.NotContains(t, parsed, Filename)
}

// TestMarshal_KeepsMarkupCharacters checks keys are written without HTML escaping.
func TestMarshal_KeepsMarkupCharacters(t *testing.T) {
	t.Parallel()

	m := Manifest{"a&b/<c>.png": sha1Hex("c"), "pass.json": sha1Hex("{}")}

	data, err := m.Marshal()
	require.NoError(t, err)
	require.Contains(t, string(data), "\n  \"a&b/<c>.png\": \""+sha1Hex("c")+"\"")
	require.NotContains(t, string(data), `\u0026`)
	require.NotEqual(t, byte('\n'), data[len(data)-1])

	parsed, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, m, parsed)
}

// TestFingerprint_Stable checks the fingerprint depends only on the key→digest pairs.
func TestFingerprint_Stable(t *testing.T) {
	t.Parallel()

	a := Manifest{"a.png": sha1Hex("a"), "b.png": sha1Hex("b")}
	b := Manifest{"b.png": sha1Hex("b"), "a.png": sha1Hex("a")}

	fa, err := a.Fingerprint()
	require.NoError(t, err)

	fb, err := b.Fingerprint()
	require.NoError(t, err)
	require.Equal(t, fa, fb)
	require.NoError(t, fa.Validate())

	b["b.png"] = sha1Hex("B")
	fc, err := b.Fingerprint()
	require.NoError(t, err)
	require.NotEqual(t, fa, fc)
}
