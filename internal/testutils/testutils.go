// Package testutils provides shared test infrastructure: generated images,
// in-memory zip archives and a fake public disk API.
package testutils

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"
)

// ZipEntry is a single file inside a generated archive.
type ZipEntry struct {
	Name string
	Data []byte
}

// SolidPNG encodes a w x h PNG filled with c.
func SolidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ZipBytes builds a zip archive holding entries in order. Names ending in
// "/" become directory entries.
func ZipBytes(t *testing.T, entries []ZipEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.Name)
		if err != nil {
			t.Fatalf("zip create %s: %v", e.Name, err)
		}
		if _, err := w.Write(e.Data); err != nil {
			t.Fatalf("zip write %s: %v", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// DiskServer fakes the public resources API and the download host.
//
// GET /resolve answers with {"href": "<server>/archive.zip"} or, when
// ResolveStatus is set to something other than 200, with that status.
// GET /archive.zip serves Archive.
type DiskServer struct {
	*httptest.Server

	Archive       []byte
	ResolveStatus int

	resolveCalls  atomic.Int32
	downloadCalls atomic.Int32
}

// StartDiskServer starts a DiskServer serving archive. It is closed when the
// test ends.
func StartDiskServer(t *testing.T, archive []byte) *DiskServer {
	t.Helper()
	ds := &DiskServer{Archive: archive, ResolveStatus: http.StatusOK}

	mux := http.NewServeMux()
	mux.HandleFunc("/resolve", func(w http.ResponseWriter, r *http.Request) {
		ds.resolveCalls.Add(1)
		if ds.ResolveStatus != http.StatusOK {
			w.WriteHeader(ds.ResolveStatus)
			w.Write([]byte(`{"description":"Resource not found.","error":"DiskNotFoundError"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"href":      ds.URL + "/archive.zip",
			"method":    "GET",
			"templated": false,
		})
	})
	mux.HandleFunc("/archive.zip", func(w http.ResponseWriter, r *http.Request) {
		ds.downloadCalls.Add(1)
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Length", strconv.Itoa(len(ds.Archive)))
		w.Write(ds.Archive)
	})

	ds.Server = httptest.NewServer(mux)
	t.Cleanup(ds.Close)
	return ds
}

// ResolveURL is the API base URL to configure.
func (ds *DiskServer) ResolveURL() string {
	return ds.URL + "/resolve"
}

// ResolveCalls returns how many resolve requests were served.
func (ds *DiskServer) ResolveCalls() int {
	return int(ds.resolveCalls.Load())
}

// DownloadCalls returns how many archive downloads were served.
func (ds *DiskServer) DownloadCalls() int {
	return int(ds.downloadCalls.Load())
}
