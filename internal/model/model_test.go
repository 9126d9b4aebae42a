package model

import (
	"path/filepath"
	"testing"
)

func TestArchiveFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"archive.zip", "archive.zip"},
		{"  padded.zip  ", "padded.zip"},
		{"../archive.zip", "archive.zip"},
		{"../../etc/passwd", "passwd"},
		{"dir\\archive.zip", "archive.zip"},
		{"/abs/photos.zip", "photos.zip"},
		{"nested/", "nested"},
		{"", DefaultArchiveName},
		{".", DefaultArchiveName},
		{"..", DefaultArchiveName},
		{"/", DefaultArchiveName},
		{"   ", DefaultArchiveName},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := archiveFileName(tt.input); got != tt.want {
				t.Errorf("archiveFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestArchive_PathComputation(t *testing.T) {
	cfg := &PathConfig{
		LocalFolder:     "download",
		ArchiveName:     "archive.zip",
		ExtractedFolder: "all_files",
	}

	archive := NewArchive("https://example.com/a.zip", cfg)

	want := filepath.Join("download", "archive.zip")
	if archive.Path != want {
		t.Errorf("Archive.Path = %q, want %q", archive.Path, want)
	}
	if archive.ExtractDir != "all_files" {
		t.Errorf("Archive.ExtractDir = %q, want %q", archive.ExtractDir, "all_files")
	}
	if !archive.IsResolved() {
		t.Error("IsResolved() should return true when URL is set")
	}
}

func TestArchive_EmptyName(t *testing.T) {
	cfg := &PathConfig{LocalFolder: "download", ArchiveName: ".."}

	archive := NewArchive("", cfg)

	want := filepath.Join("download", DefaultArchiveName)
	if archive.Path != want {
		t.Errorf("Archive.Path = %q, want %q", archive.Path, want)
	}
	if archive.IsResolved() {
		t.Error("IsResolved() should return false when URL is empty")
	}
}

func TestFileList_Append(t *testing.T) {
	var fl FileList
	fl.Append("a.png")
	fl.Append("b.png")
	fl.Append("a.png")

	if fl.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", fl.Len())
	}
	if fl[2] != "a.png" {
		t.Errorf("fl[2] = %q, want %q", fl[2], "a.png")
	}
}
