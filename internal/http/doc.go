// Package http provides the HTTP client used to talk to the cloud-disk API
// and to stream archives to disk.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Timeout handling
//   - JSON API requests with status checking
//   - Streamed file downloads in fixed-size chunks with progress tracking
//
// # Basic Usage
//
//	client := http.NewClient(http.DefaultOptions())
//
//	// Decode a JSON API response
//	var link dto.DownloadLink
//	err := client.GetJSON(ctx, apiURL, &link)
//
//	// Download file with progress callback
//	n, err := client.DownloadFile(ctx, link.Href, "download/archive.zip", func(written, total int64) {
//	    fmt.Printf("%d / %d bytes\n", written, total)
//	})
//
// # Errors
//
// Any response other than 200 OK is reported as a *StatusError, which
// matches ErrUnexpectedStatus with errors.Is.
package http
