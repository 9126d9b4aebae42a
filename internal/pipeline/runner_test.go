package pipeline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/handiism/disk-collage/internal/config"
	ioutils "github.com/handiism/disk-collage/internal/io"
	"github.com/handiism/disk-collage/internal/testutils"
	"github.com/handiism/disk-collage/internal/yadisk"
)

type recorder struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (r *recorder) record(e ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) has(level ProgressLevel, substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.Level == level && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func testArchive(t *testing.T) []byte {
	t.Helper()
	return testutils.ZipBytes(t, []testutils.ZipEntry{
		{Name: "photos/"},
		{Name: "photos/a.png", Data: testutils.SolidPNG(t, 4, 4, color.NRGBA{R: 255, A: 255})},
		{Name: "photos/b.png", Data: testutils.SolidPNG(t, 6, 3, color.NRGBA{G: 255, A: 255})},
		{Name: "photos/nested/c.png", Data: testutils.SolidPNG(t, 2, 2, color.NRGBA{B: 255, A: 255})},
		{Name: "photos/readme.txt", Data: []byte("not an image")},
		{Name: "photos/d.PNG", Data: testutils.SolidPNG(t, 2, 2, color.White)},
	})
}

func testSettings(t *testing.T, ds *testutils.DiskServer) *config.Settings {
	t.Helper()
	dir := t.TempDir()
	s := config.DefaultSettings()
	s.APIURL = ds.ResolveURL()
	s.LocalFolder = filepath.Join(dir, "download")
	s.ExtractedFolder = filepath.Join(dir, "all_files")
	s.OutputFile = filepath.Join(dir, "collage_final.tif")
	return s
}

func newRunner(t *testing.T, s *config.Settings, rec *recorder) *Runner {
	t.Helper()
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	r, err := NewRunner(s, rec.record)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return r
}

func TestRun_EndToEnd(t *testing.T) {
	ds := testutils.StartDiskServer(t, testArchive(t))
	s := testSettings(t, ds)
	rec := &recorder{}

	runner := newRunner(t, s, rec)
	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Files.Len() != 3 {
		t.Fatalf("collected %d files, want 3: %v", result.Files.Len(), result.Files)
	}
	if want := image.Rect(0, 0, 3250, 820); result.Bounds != want {
		t.Errorf("bounds = %v, want %v", result.Bounds, want)
	}
	if !result.Archive.IsResolved() {
		t.Error("archive should be resolved")
	}
	if result.Archive.Size != int64(len(ds.Archive)) {
		t.Errorf("archive size = %d, want %d", result.Archive.Size, len(ds.Archive))
	}
	if result.PublishedURL != "" {
		t.Errorf("unexpected published URL %q", result.PublishedURL)
	}

	img, err := ioutils.NewImageService().Load(s.OutputFile)
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(3250, 820) {
		t.Errorf("output size = %v, want (3250,820)", got)
	}

	for _, want := range []struct {
		level  ProgressLevel
		substr string
	}{
		{LevelSuccess, "Archive downloaded"},
		{LevelSuccess, "Archive extracted"},
		{LevelInfo, "Found 3 images"},
		{LevelSuccess, "Collage saved"},
		{LevelVerbose, "Downloaded 100%"},
	} {
		if !rec.has(want.level, want.substr) {
			t.Errorf("missing event %q at level %d", want.substr, want.level)
		}
	}

	received, total, placed, images := runner.GetProgress()
	if received != int64(len(ds.Archive)) || total != int64(len(ds.Archive)) {
		t.Errorf("byte progress = %d/%d, want %d", received, total, len(ds.Archive))
	}
	if placed != 3 || images != 3 {
		t.Errorf("image progress = %d/%d, want 3/3", placed, images)
	}
}

func TestFetch_ResolveFailureContinues(t *testing.T) {
	ds := testutils.StartDiskServer(t, testArchive(t))
	ds.ResolveStatus = 404
	s := testSettings(t, ds)
	rec := &recorder{}
	runner := newRunner(t, s, rec)

	archive, err := runner.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if archive.IsResolved() {
		t.Error("archive should not be resolved")
	}
	if !rec.has(LevelError, "Error getting download link") {
		t.Error("missing error event")
	}
	if ds.DownloadCalls() != 0 {
		t.Errorf("archive downloaded %d times, want 0", ds.DownloadCalls())
	}
	if _, err := os.Stat(filepath.Join(s.LocalFolder, s.ArchiveName)); !os.IsNotExist(err) {
		t.Errorf("archive file should not exist, stat err = %v", err)
	}

	// Later steps still run: nothing was extracted, so the collage is the
	// padding strip only.
	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Files.Len() != 0 {
		t.Errorf("collected %d files, want 0", result.Files.Len())
	}
	if want := image.Rect(0, 0, 3250, 10); result.Bounds != want {
		t.Errorf("bounds = %v, want %v", result.Bounds, want)
	}
	if _, err := os.Stat(s.OutputFile); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestRun_AbortOnResolveError(t *testing.T) {
	ds := testutils.StartDiskServer(t, testArchive(t))
	ds.ResolveStatus = 500
	s := testSettings(t, ds)
	s.AbortOnResolveError = true

	_, err := newRunner(t, s, &recorder{}).Run(context.Background())
	if !errors.Is(err, yadisk.ErrResolution) {
		t.Fatalf("Run error = %v, want ErrResolution", err)
	}
	if _, err := os.Stat(s.OutputFile); !os.IsNotExist(err) {
		t.Errorf("output should not exist, stat err = %v", err)
	}
}

func TestRun_UsesExistingExtraction(t *testing.T) {
	ds := testutils.StartDiskServer(t, nil)
	ds.ResolveStatus = 404
	s := testSettings(t, ds)
	s.CellWidth, s.CellHeight, s.Padding, s.Columns = 2, 2, 1, 2
	s.OutputFile = filepath.Join(filepath.Dir(s.OutputFile), "out.png")

	for _, name := range []string{"x.png", "y.png"} {
		testutils.WriteFile(t, filepath.Join(s.ExtractedFolder, name), testutils.SolidPNG(t, 2, 2, color.Black))
	}

	result, err := newRunner(t, s, &recorder{}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := image.Rect(0, 0, 7, 4); result.Bounds != want {
		t.Errorf("bounds = %v, want %v", result.Bounds, want)
	}
}

func TestRun_Workers(t *testing.T) {
	ds := testutils.StartDiskServer(t, testArchive(t))
	s := testSettings(t, ds)
	s.CellWidth, s.CellHeight = 16, 16
	s.DecodeWorkers = 3
	s.OutputFile = filepath.Join(filepath.Dir(s.OutputFile), "out.png")

	result, err := newRunner(t, s, &recorder{}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := image.Rect(0, 0, 4*26+10, 36); result.Bounds != want {
		t.Errorf("bounds = %v, want %v", result.Bounds, want)
	}
}

func TestRun_Publish(t *testing.T) {
	ds := testutils.StartDiskServer(t, testArchive(t))
	s := testSettings(t, ds)
	s.CellWidth, s.CellHeight = 8, 8
	s.OutputFile = filepath.Join(filepath.Dir(s.OutputFile), "out.png")

	bucketDir := t.TempDir()
	s.PublishBucket = "file://" + filepath.ToSlash(bucketDir)
	s.PublishKey = "final.png"
	rec := &recorder{}

	result, err := newRunner(t, s, rec).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := s.PublishBucket + "/final.png"; result.PublishedURL != want {
		t.Errorf("published URL = %q, want %q", result.PublishedURL, want)
	}
	if _, err := os.Stat(filepath.Join(bucketDir, "final.png")); err != nil {
		t.Errorf("published object missing: %v", err)
	}
	if !rec.has(LevelSuccess, "Collage published") {
		t.Error("missing publish event")
	}
}

func TestRun_Cancelled(t *testing.T) {
	ds := testutils.StartDiskServer(t, testArchive(t))
	s := testSettings(t, ds)
	s.AbortOnResolveError = true

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newRunner(t, s, &recorder{}).Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
}

func TestNewRunner_BadBackground(t *testing.T) {
	s := config.DefaultSettings()
	s.Background = "white"
	if _, err := NewRunner(s, nil); err == nil {
		t.Error("expected error for bad background")
	}
}
