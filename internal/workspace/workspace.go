package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	dircopy "github.com/otiai10/copy"

	"github.com/pixix4/wallet-pass/internal/errs"
	"github.com/pixix4/wallet-pass/internal/logger"
)

// tempPattern names workspace directories inside the OS temporary directory.
const tempPattern = "wallet-pass-*"

var errNotDirectory = errors.New("not a directory")

// Copier reproduces the tree below src inside dst: the children of src
// become children of dst.
type Copier interface {
	Copy(src, dst string) error
}

// CopierFunc adapts a function to Copier.
type CopierFunc func(src, dst string) error

// Copy calls f(src, dst).
func (f CopierFunc) Copy(src, dst string) error {
	return f(src, dst)
}

// TreeCopier copies directory contents, following symbolic links so the
// workspace only holds regular files and directories.
//
//nolint:gochecknoglobals // Stateless default collaborator.
var TreeCopier Copier = CopierFunc(func(src, dst string) error {
	return dircopy.Copy(src, dst, dircopy.Options{
		OnSymlink: func(string) dircopy.SymlinkAction {
			return dircopy.Deep
		},
	})
})

// Option configures Open.
type Option func(*options)

type options struct {
	copier  Copier
	remover func(path string) error
	tempDir string
}

// WithCopier replaces the tree copier.
func WithCopier(c Copier) Option {
	return func(o *options) {
		if c != nil {
			o.copier = c
		}
	}
}

// WithRemover replaces the function deleting the workspace tree on Close.
func WithRemover(remove func(path string) error) Option {
	return func(o *options) {
		if remove != nil {
			o.remover = remove
		}
	}
}

// WithTempDir allocates workspaces below dir instead of os.TempDir.
func WithTempDir(dir string) Option {
	return func(o *options) {
		o.tempDir = dir
	}
}

// Workspace is an exclusively owned copy of a bundle.
type Workspace struct {
	// root is the absolute workspace directory.
	root string
	// remove deletes the tree below root.
	remove func(path string) error
	// closed is set once the directory was removed.
	closed bool
}

// Open creates a workspace holding a copy of the bundle directory.
// If the copy fails the partially filled directory is removed before returning.
func Open(ctx context.Context, bundle string, opts ...Option) (*Workspace, error) {
	o := &options{copier: TreeCopier, remover: os.RemoveAll}
	for _, opt := range opts {
		opt(o)
	}

	info, err := os.Stat(bundle)
	if err != nil {
		return nil, errs.NewIO("stat bundle", bundle, err)
	}

	if !info.IsDir() {
		return nil, errs.NewIO("stat bundle", bundle, errNotDirectory)
	}

	root, err := os.MkdirTemp(o.tempDir, tempPattern)
	if err != nil {
		return nil, errs.NewIO("create workspace", o.tempDir, err)
	}

	ws := &Workspace{root: root, remove: o.remover}

	if err = o.copier.Copy(bundle, root); err != nil {
		if cerr := ws.Close(); cerr != nil {
			logger.WarnKV(ctx, "Failed to remove partial workspace", "workspace", root, "error", cerr)
		}

		return nil, errs.NewIO("copy bundle", bundle, err)
	}

	logger.DebugKV(ctx, "Workspace ready", "workspace", root)

	return ws, nil
}

// Root returns the workspace directory.
func (w *Workspace) Root() string {
	return w.root
}

// Path joins a slash-separated relative path to the workspace root.
func (w *Workspace) Path(rel string) string {
	return filepath.Join(w.root, filepath.FromSlash(rel))
}

// Close removes the workspace tree. Calling it again is a no-op.
func (w *Workspace) Close() error {
	if w == nil || w.closed {
		return nil
	}

	remove := w.remove
	if remove == nil {
		remove = os.RemoveAll
	}

	if err := remove(w.root); err != nil {
		return errs.NewIO("remove workspace", w.root, err)
	}

	w.closed = true

	return nil
}

// metadataFiles are filesystem byproducts that never belong to a pass.
//
//nolint:gochecknoglobals // Read-only lookup table.
var metadataFiles = map[string]struct{}{
	".DS_Store":   {},
	"Thumbs.db":   {},
	"desktop.ini": {},
}

// RemoveMetadataFiles deletes filesystem marker files anywhere in the
// workspace and returns their relative paths.
func (w *Workspace) RemoveMetadataFiles() ([]string, error) {
	var removed []string

	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return errs.NewIO("walk", path, walkErr)
		}

		if d.IsDir() {
			return nil
		}

		if _, ok := metadataFiles[d.Name()]; !ok {
			return nil
		}

		if err := os.Remove(path); err != nil {
			return errs.NewIO("remove metadata file", path, err)
		}

		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			return fmt.Errorf("resolve relative path: %w", err)
		}

		removed = append(removed, filepath.ToSlash(rel))

		return nil
	})

	return removed, err
}
