package model

import (
	"path"
	"path/filepath"
	"strings"
)

// DefaultArchiveName is used when PathConfig.ArchiveName has no usable file name.
const DefaultArchiveName = "archive.zip"

// PathConfig holds the local paths used by a pipeline run.
//
// Example configuration:
//
//	cfg := &PathConfig{
//	    LocalFolder:     "download",
//	    ArchiveName:     "archive.zip",
//	    ExtractedFolder: "all_files",
//	    OutputPath:      "collage_final.tif",
//	}
type PathConfig struct {
	// LocalFolder is the directory the archive is downloaded into.
	// It is created if missing.
	LocalFolder string

	// ArchiveName is the file name of the downloaded archive inside LocalFolder.
	ArchiveName string

	// ExtractedFolder is the directory the archive is extracted into.
	ExtractedFolder string

	// OutputPath is where the collage is written. Its extension selects the
	// image format.
	OutputPath string
}

// Archive represents a remote zip archive and its local locations.
//
// Paths are computed when creating an archive via NewArchive. The archive
// name is sanitized so that a configured name can never point outside
// LocalFolder.
//
// Example:
//
//	archive := NewArchive("https://downloader.disk.yandex.ru/zip/...", cfg)
//	// archive.Path = "download/archive.zip"
type Archive struct {
	// URL is the direct download URL (the resolved href).
	// Empty when the share link could not be resolved.
	URL string

	// Path is the local file the archive body is streamed into.
	Path string

	// ExtractDir is the directory the archive entries are extracted into.
	ExtractDir string

	// Size is the number of bytes written to Path. Zero until downloaded.
	Size int64
}

// NewArchive creates a new Archive with paths computed from cfg.
func NewArchive(url string, cfg *PathConfig) *Archive {
	return &Archive{
		URL:        url,
		Path:       parseArchivePath(cfg),
		ExtractDir: cfg.ExtractedFolder,
	}
}

// IsResolved reports whether the archive has a download URL.
func (a *Archive) IsResolved() bool {
	return a.URL != ""
}

// parseArchivePath computes the archive file path inside the local folder.
func parseArchivePath(cfg *PathConfig) string {
	return filepath.Join(cfg.LocalFolder, archiveFileName(cfg.ArchiveName))
}

// archiveFileName reduces name to a single path element so the archive can
// never be written outside LocalFolder. Both "/" and "\" count as
// separators. Names that reduce to nothing, "." or ".." fall back to
// DefaultArchiveName.
//
// Example:
//
//	archiveFileName("../archive.zip") // Returns "archive.zip"
func archiveFileName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	name = strings.TrimSpace(path.Base(name))

	switch name {
	case "", ".", "..", "/":
		return DefaultArchiveName
	}
	return name
}
