package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const maxErrorBody = 4096

// ErrUnexpectedStatus matches every *StatusError.
var ErrUnexpectedStatus = errors.New("http: unexpected status")

// StatusError reports a response whose status was not 200 OK.
type StatusError struct {
	Code   int
	Status string

	// Body holds the start of the response body, for APIs that explain
	// failures in JSON.
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Status)
}

// Is reports whether target is ErrUnexpectedStatus.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

// Options configures the HTTP client.
type Options struct {
	// Timeout bounds metadata requests (Get, GetJSON) end to end, and how
	// long DownloadFile waits for response headers. A download body that
	// keeps arriving is never cut off. Zero means no timeout.
	// Default: 60s
	Timeout time.Duration

	// UserAgent is sent with every request.
	// Default: "disk-collage"
	UserAgent string

	// ChunkSize is the buffer size used when streaming downloads to disk.
	// Default: 1024
	ChunkSize int
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Timeout:   60 * time.Second,
		UserAgent: "disk-collage",
		ChunkSize: 1024,
	}
}

// Client wraps HTTP operations with the configured User-Agent, timeout and
// chunk size.
//
// Example usage:
//
//	client := NewClient(DefaultOptions())
//
//	// Fetch JSON metadata
//	var link dto.DownloadLink
//	err := client.GetJSON(ctx, apiURL, &link)
//
//	// Stream an archive to disk
//	n, err := client.DownloadFile(ctx, link.Href, "download/archive.zip", nil)
type Client struct {
	httpClient *http.Client
	opts       Options
}

// NewClient creates a new HTTP client with the given options.
func NewClient(opts Options) *Client {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultOptions().ChunkSize
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = opts.Timeout

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
		},
		opts: opts,
	}
}

// ProgressWriter wraps a writer to track download progress.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	// -1 when unknown.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	// Parameters are (bytesWritten, totalExpected). May be nil.
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns an error if:
//   - The request fails
//   - The response status is not 200 OK (a *StatusError)
//   - Reading the body fails
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	resp, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// GetJSON performs a GET request and decodes the JSON body into v.
//
// Example:
//
//	var link dto.DownloadLink
//	if err := client.GetJSON(ctx, apiURL, &link); err != nil {
//	    return err
//	}
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode JSON response: %w", err)
	}
	return nil
}

// DownloadFile streams url into destPath and returns the number of bytes written.
//
// The body is copied in ChunkSize pieces, so the whole file is never held in
// memory. The destination is created (or truncated) only after a 200 OK
// response, so a failed request leaves no file behind.
//
// Parameters:
//   - ctx: Context for cancellation
//   - url: URL to download from
//   - destPath: Local file path to save to
//   - onProgress: Optional callback called with (bytesWritten, totalBytes)
//     Pass nil to disable progress tracking
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) (int64, error) {
	resp, err := c.do(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	file, err := os.Create(destPath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	pw := &ProgressWriter{
		Writer:   file,
		Total:    resp.ContentLength,
		OnUpdate: onProgress,
	}

	// Hide WriterTo/ReaderFrom so io.CopyBuffer really uses buf.
	buf := make([]byte, c.opts.ChunkSize)
	n, err := io.CopyBuffer(pw, struct{ io.Reader }{resp.Body}, buf)
	if err != nil {
		return n, err
	}

	return n, file.Close()
}

func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status, Body: body}
	}

	return resp, nil
}
