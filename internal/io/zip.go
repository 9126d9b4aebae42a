package ioutils

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrUnsafePath is returned for archive entries that would be written
// outside the destination directory.
var ErrUnsafePath = errors.New("archive entry escapes destination")

// ExtractZip extracts every entry of the zip archive at src into dest and
// returns the number of files written.
//
// dest and any intermediate directories are created as needed. Existing
// files are overwritten. Extraction stops at the first error and files
// already written are left in place.
//
// Returns an error if:
//   - src is not a valid zip archive
//   - an entry name is absolute or contains ".." (ErrUnsafePath)
//   - any file cannot be created or written
func ExtractZip(src, dest string) (int, error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		return 0, fmt.Errorf("open archive: %w", err)
	}
	defer r.Close()

	if err := EnsureDir(dest); err != nil {
		return 0, err
	}

	var count int
	for _, f := range r.File {
		target, err := entryPath(dest, f.Name)
		if err != nil {
			return count, err
		}

		if f.FileInfo().IsDir() {
			if err := EnsureDir(target); err != nil {
				return count, err
			}
			continue
		}

		if err := EnsureDir(filepath.Dir(target)); err != nil {
			return count, err
		}
		if err := extractFile(f, target); err != nil {
			return count, fmt.Errorf("extract %s: %w", f.Name, err)
		}
		count++
	}

	return count, nil
}

func entryPath(dest, name string) (string, error) {
	local := filepath.FromSlash(name)
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	return filepath.Join(dest, local), nil
}

func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return err
	}
	return out.Close()
}
