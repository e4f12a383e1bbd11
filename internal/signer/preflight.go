package signer

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/pixix4/wallet-pass/internal/errs"
	"github.com/pixix4/wallet-pass/internal/manifest"
	"github.com/pixix4/wallet-pass/internal/signature"
)

// signingArtifacts are the files a previous run leaves in a bundle.
//
//nolint:gochecknoglobals // Read-only list.
var signingArtifacts = []string{manifest.Filename, signature.Filename}

// CheckUnsigned fails with *errs.AlreadySignedError when bundle holds a
// manifest or signature. It never modifies the bundle.
func CheckUnsigned(bundle string) error {
	var found []string

	for _, name := range signingArtifacts {
		exists, err := exists(filepath.Join(bundle, name))
		if err != nil {
			return err
		}

		if exists {
			found = append(found, name)
		}
	}

	if len(found) > 0 {
		return &errs.AlreadySignedError{Bundle: bundle, Artifacts: found}
	}

	return nil
}

// ForceClean deletes signing artifacts from bundle in place and returns the
// names it removed.
func ForceClean(bundle string) ([]string, error) {
	var removed []string

	for _, name := range signingArtifacts {
		path := filepath.Join(bundle, name)

		err := os.Remove(path)
		switch {
		case err == nil:
			removed = append(removed, name)
		case errors.Is(err, os.ErrNotExist):
		default:
			return removed, errs.NewIO("remove signing artifact", path, err)
		}
	}

	return removed, nil
}

func exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, errs.NewIO("stat", path, err)
	}
}
