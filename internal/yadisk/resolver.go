package yadisk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/handiism/disk-collage/internal/http"
	"github.com/handiism/disk-collage/internal/yadisk/dto"
)

// ErrResolution is wrapped by every error returned from Resolve.
var ErrResolution = errors.New("could not resolve public link")

// ErrMissingHref is returned when the API answers 200 without an href.
var ErrMissingHref = errors.New("response has no href")

// Resolver turns public share links into direct download URLs.
type Resolver struct {
	client *http.Client
	apiURL string
}

// NewResolver creates a Resolver that queries apiURL through client.
func NewResolver(client *http.Client, apiURL string) *Resolver {
	return &Resolver{
		client: client,
		apiURL: apiURL,
	}
}

// BuildURL returns base with the public_key query parameter set to publicKey.
//
// Query parameters already present in base are kept. A trailing "?" on base
// is accepted.
//
// Example:
//
//	BuildURL("https://cloud-api.yandex.net/v1/disk/public/resources/download",
//	    "https://disk.yandex.ru/d/abc")
//	// https://cloud-api.yandex.net/v1/disk/public/resources/download?public_key=https%3A%2F%2Fdisk.yandex.ru%2Fd%2Fabc
func BuildURL(base, publicKey string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse api url: %w", err)
	}

	q := u.Query()
	q.Set("public_key", publicKey)
	u.RawQuery = q.Encode()
	u.ForceQuery = false

	return u.String(), nil
}

// Resolve asks the API for the direct download URL of publicKey.
//
// The returned error wraps ErrResolution and, for HTTP failures, the
// underlying *http.StatusError.
func (r *Resolver) Resolve(ctx context.Context, publicKey string) (string, error) {
	endpoint, err := BuildURL(r.apiURL, publicKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrResolution, err)
	}

	var link dto.DownloadLink
	if err := r.client.GetJSON(ctx, endpoint, &link); err != nil {
		return "", fmt.Errorf("%w: %w", ErrResolution, describe(err))
	}

	if link.Href == "" {
		return "", fmt.Errorf("%w: %w", ErrResolution, ErrMissingHref)
	}

	return link.Href, nil
}

// describe adds the API's own explanation to status errors when it sent one.
func describe(err error) error {
	var se *http.StatusError
	if !errors.As(err, &se) || len(se.Body) == 0 {
		return err
	}

	var apiErr dto.APIError
	if json.Unmarshal(se.Body, &apiErr) != nil || apiErr.String() == "" {
		return err
	}
	return fmt.Errorf("%w (%s)", err, apiErr.String())
}
