package ioutils

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/handiism/disk-collage/internal/model"
)

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// CollectFiles walks root and returns every regular file whose name ends
// with suffix.
//
// The match is case-sensitive: with suffix ".png", "a.PNG" is skipped.
// Files are returned in walk order (lexical within each directory), which is
// stable for a given tree. Subdirectories of any depth are searched.
//
// A root that does not exist yields an empty list. Any other error, such as
// an unreadable directory, is returned.
//
// Example:
//
//	files, err := CollectFiles("all_files", ".png")
//	// [all_files/a.png all_files/nested/b.png]
func CollectFiles(root, suffix string) (model.FileList, error) {
	var files model.FileList

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.Type().IsRegular() && strings.HasSuffix(d.Name(), suffix) {
			files.Append(path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}
