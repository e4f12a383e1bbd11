package signer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pixix4/wallet-pass/internal/errs"
)

const (
	// Extension is the file extension of signed pass archives.
	Extension = ".pkpass"

	// defaultPassName is used when the bundle path has no usable stem.
	defaultPassName = "Pass"

	// outputMode is applied to finished archives.
	outputMode os.FileMode = 0o644
)

// DefaultOutputPath derives the archive name from the bundle directory:
// "Event.pass" gives "Event.pkpass".
func DefaultOutputPath(bundle string) string {
	base := filepath.Base(filepath.Clean(bundle))
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		stem = defaultPassName
	}

	return stem + Extension
}

// SignToFile runs Sign into output atomically. A failed run leaves no file
// at output.
func (p *Pipeline) SignToFile(ctx context.Context, opts *Options, output string) (*Result, error) {
	var result *Result

	err := WriteFileAtomic(output, func(w io.Writer) error {
		var err error

		result, err = p.Sign(ctx, opts, w)

		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// WriteFileAtomic streams write into a temporary file next to path and
// renames it into place only when write succeeds.
func WriteFileAtomic(path string, write func(w io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errs.NewIO("create output", path, err)
	}

	tmpPath := tmp.Name()
	keep := false

	defer func() {
		if !keep {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}

	if err = tmp.Sync(); err != nil {
		return errs.NewIO("sync output", tmpPath, err)
	}

	if err = tmp.Chmod(outputMode); err != nil {
		return errs.NewIO("chmod output", tmpPath, err)
	}

	if err = tmp.Close(); err != nil {
		return errs.NewIO("close output", tmpPath, err)
	}

	if err = os.Rename(tmpPath, path); err != nil {
		return errs.NewIO("rename output", path, fmt.Errorf("from %s: %w", tmpPath, err))
	}

	keep = true

	return nil
}
