package archive

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/pixix4/wallet-pass/internal/errs"
)

// EntryMode is the permission pattern recorded for every entry.
const EntryMode os.FileMode = 0o755

// entryTime is stamped on every entry so identical workspaces give identical archives.
//
//nolint:gochecknoglobals // Constant value, time.Time cannot be a const.
var entryTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

var errNotDirectory = errors.New("not a directory")

// Pack writes one entry per filesystem node below root, in walk order:
// regular files as Deflate entries, directories as explicit directory
// entries. The root itself never gets an entry. Pack returns the entry names.
func Pack(root string, w io.Writer) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &errs.ArchiveError{Path: root, Err: err}
	}

	if !info.IsDir() {
		return nil, &errs.ArchiveError{Path: root, Err: errNotDirectory}
	}

	zw := zip.NewWriter(w)

	var entries []string

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return errs.NewIO("walk", path, walkErr)
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return errs.NewIO("resolve relative path", path, err)
		}

		if rel == "." {
			return nil
		}

		name := filepath.ToSlash(rel)

		switch {
		case d.IsDir():
			name += "/"
			err = addDirectory(zw, name)
		case d.Type().IsRegular():
			err = addFile(zw, name, path)
		default:
			return nil
		}

		if err != nil {
			return err
		}

		entries = append(entries, name)

		return nil
	})
	if err != nil {
		_ = zw.Close()
		return nil, err
	}

	if err = zw.Close(); err != nil {
		return nil, errs.NewIO("finish archive", root, err)
	}

	return entries, nil
}

func addDirectory(zw *zip.Writer, name string) error {
	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Store,
		Modified: entryTime,
	}
	header.SetMode(os.ModeDir | EntryMode)

	if _, err := zw.CreateHeader(header); err != nil {
		return errs.NewIO("add directory entry", name, err)
	}

	return nil
}

func addFile(zw *zip.Writer, name, path string) error {
	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: entryTime,
	}
	header.SetMode(EntryMode)

	dst, err := zw.CreateHeader(header)
	if err != nil {
		return errs.NewIO("add file entry", name, err)
	}

	src, err := os.Open(filepath.Clean(path))
	if err != nil {
		return errs.NewIO("open", path, err)
	}
	defer src.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return errs.NewIO("compress", path, err)
	}

	return nil
}
