package main

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/handiism/disk-collage/internal/testutils"
)

func testArgs(t *testing.T, ds *testutils.DiskServer, extra ...string) ([]string, string) {
	t.Helper()
	dir := t.TempDir()
	output := filepath.Join(dir, "out.png")
	args := []string{
		"--api-url", ds.ResolveURL(),
		"--local-folder", filepath.Join(dir, "download"),
		"--extracted-folder", filepath.Join(dir, "all_files"),
		"--output", output,
		"--cell-width", "8",
		"--cell-height", "8",
		"--padding", "2",
		"--columns", "2",
	}
	return append(args, extra...), output
}

func testZip(t *testing.T) []byte {
	return testutils.ZipBytes(t, []testutils.ZipEntry{
		{Name: "a.png", Data: testutils.SolidPNG(t, 3, 3, color.Black)},
		{Name: "b.png", Data: testutils.SolidPNG(t, 3, 3, color.White)},
		{Name: "c.jpg", Data: []byte("skipped")},
	})
}

func TestExecute(t *testing.T) {
	ds := testutils.StartDiskServer(t, testZip(t))
	args, output := testArgs(t, ds, "https://disk.yandex.ru/d/test")

	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}

	for _, want := range []string{"Archive downloaded", "Archive extracted", "Found 2 images", "Collage saved", "22x12"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout.String())
		}
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestExecute_ResolveFailure(t *testing.T) {
	ds := testutils.StartDiskServer(t, testZip(t))
	ds.ResolveStatus = 404

	t.Run("continues by default", func(t *testing.T) {
		args, output := testArgs(t, ds)
		var stdout, stderr bytes.Buffer
		if code := execute(context.Background(), args, &stdout, &stderr); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
		}
		if !strings.Contains(stdout.String(), "Error getting download link") {
			t.Errorf("missing error line:\n%s", stdout.String())
		}
		if !strings.Contains(stdout.String(), "Found 0 images") {
			t.Errorf("later steps did not run:\n%s", stdout.String())
		}
		if _, err := os.Stat(output); err != nil {
			t.Errorf("output not written: %v", err)
		}
	})

	t.Run("abort flag", func(t *testing.T) {
		args, output := testArgs(t, ds, "--abort-on-resolve-error")
		var stdout, stderr bytes.Buffer
		if code := execute(context.Background(), args, &stdout, &stderr); code != ExitError {
			t.Fatalf("exit code = %d, want %d", code, ExitError)
		}
		if !strings.Contains(stderr.String(), "could not resolve") {
			t.Errorf("stderr = %q", stderr.String())
		}
		if _, err := os.Stat(output); !os.IsNotExist(err) {
			t.Errorf("output should not exist, stat err = %v", err)
		}
	})
}

func TestExecute_DryRun(t *testing.T) {
	ds := testutils.StartDiskServer(t, testZip(t))
	args, output := testArgs(t, ds, "--dry-run")

	var stdout, stderr bytes.Buffer
	if code := execute(context.Background(), args, &stdout, &stderr); code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), ds.URL+"/archive.zip") {
		t.Errorf("href not printed:\n%s", stdout.String())
	}
	if ds.DownloadCalls() != 0 {
		t.Errorf("archive downloaded during dry run")
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Errorf("output should not exist, stat err = %v", err)
	}
}

func TestExecute_InvalidSettings(t *testing.T) {
	ds := testutils.StartDiskServer(t, testZip(t))

	tests := []struct {
		name  string
		extra []string
	}{
		{"zero columns", []string{"--columns", "0"}},
		{"negative padding", []string{"--padding", "-1"}},
		{"bad background", []string{"--background", "white"}},
		{"too many args", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, _ := testArgs(t, ds, tt.extra...)
			var stdout, stderr bytes.Buffer
			if code := execute(context.Background(), args, &stdout, &stderr); code != ExitError {
				t.Errorf("exit code = %d, want %d", code, ExitError)
			}
			if ds.ResolveCalls() != 0 {
				t.Errorf("pipeline ran with invalid settings")
			}
		})
	}
}

func TestExecute_Cancelled(t *testing.T) {
	ds := testutils.StartDiskServer(t, testZip(t))
	args, _ := testArgs(t, ds)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	if code := execute(ctx, args, &stdout, &stderr); code != ExitCancelled {
		t.Errorf("exit code = %d, want %d", code, ExitCancelled)
	}
}

func TestLoadSettings_Precedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "collage.yaml")
	testutils.WriteFile(t, cfgPath, []byte("columns: 2\npadding: 4\ncell_width: 100\n"))

	t.Setenv("COLLAGE_PADDING", "6")
	t.Setenv("COLLAGE_CELL_WIDTH", "200")

	opts := &options{}
	cmd := newRootCmd(opts)
	if err := cmd.ParseFlags([]string{"--config", cfgPath, "--cell-width", "300"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	settings, err := loadSettings(cmd, opts, []string{"https://disk.yandex.ru/d/other"})
	if err != nil {
		t.Fatalf("loadSettings: %v", err)
	}

	if settings.Columns != 2 {
		t.Errorf("Columns = %d, want 2 (file)", settings.Columns)
	}
	if settings.Padding != 6 {
		t.Errorf("Padding = %d, want 6 (env)", settings.Padding)
	}
	if settings.CellWidth != 300 {
		t.Errorf("CellWidth = %d, want 300 (flag)", settings.CellWidth)
	}
	if settings.CellHeight != 800 {
		t.Errorf("CellHeight = %d, want 800 (default)", settings.CellHeight)
	}
	if settings.PublicKey != "https://disk.yandex.ru/d/other" {
		t.Errorf("PublicKey = %q", settings.PublicKey)
	}
}
