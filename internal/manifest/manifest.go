package manifest

import (
	"bytes"
	"crypto/sha1" //nolint:gosec // The pass format mandates SHA-1 digests in the manifest.
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/gowebpki/jcs"
	"github.com/opencontainers/go-digest"

	"github.com/pixix4/wallet-pass/internal/errs"
)

const (
	// Filename is the manifest location relative to the workspace root.
	Filename = "manifest.json"

	// fileMode is used when the manifest is written to disk.
	fileMode os.FileMode = 0o644
)

// Manifest maps slash-separated relative paths to hex SHA-1 digests.
type Manifest map[string]string

// Build walks root and digests every regular file found. Directories, and
// anything that is neither a file nor a directory, get no entry.
// Any unreadable entry aborts the walk.
func Build(root string) (Manifest, error) {
	m := make(Manifest)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return errs.NewIO("walk", path, walkErr)
		}

		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return errs.NewIO("resolve relative path", path, err)
		}

		sum, err := FileDigest(path)
		if err != nil {
			return err
		}

		m[filepath.ToSlash(rel)] = sum

		return nil
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// FileDigest returns the lowercase hex SHA-1 of the file at path.
func FileDigest(path string) (string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", errs.NewIO("open", path, err)
	}
	defer f.Close()

	h := sha1.New() //nolint:gosec // Mandated by the pass format.
	if _, err = io.Copy(h, f); err != nil {
		return "", errs.NewIO("read", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Marshal renders the manifest as two-space indented JSON without HTML
// escaping of the keys.
func (m Manifest) Marshal() ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Write stores the manifest at the root of dir and returns its path.
func (m Manifest) Write(dir string) (string, error) {
	data, err := m.Marshal()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, Filename)
	if err = os.WriteFile(path, data, fileMode); err != nil {
		return "", errs.NewIO("write manifest", path, err)
	}

	return path, nil
}

// Paths returns the manifest keys in lexical order.
func (m Manifest) Paths() []string {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}

	sort.Strings(paths)

	return paths
}

// Fingerprint identifies the key→digest set independently of JSON layout:
// the sha256 of the RFC 8785 canonical form. Two runs over the same content
// always agree on it.
func (m Manifest) Fingerprint() (digest.Digest, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode manifest: %w", err)
	}

	canonical, err := jcs.Transform(data)
	if err != nil {
		return "", fmt.Errorf("canonicalize manifest: %w", err)
	}

	return digest.FromBytes(canonical), nil
}

// Parse decodes manifest JSON.
func Parse(data []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	return m, nil
}
