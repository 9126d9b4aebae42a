// Package publish uploads finished collages to object storage.
//
// Buckets are addressed with gocloud.dev URLs:
//
//	file:///srv/collages
//	mem://
//	s3://my-bucket?region=eu-central-1   (driver registered by the CLI)
//	gs://my-bucket                       (driver registered by the CLI)
package publish

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
)

// KeyPrefix is prepended to generated object keys.
const KeyPrefix = "collages"

// Publisher copies local files into a bucket.
type Publisher struct {
	bucket *blob.Bucket
}

// Open opens the bucket at bucketURL.
func Open(ctx context.Context, bucketURL string) (*Publisher, error) {
	bkt, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("open bucket: %w", err)
	}
	return NewPublisher(bkt), nil
}

// NewPublisher wraps an already opened bucket.
func NewPublisher(bucket *blob.Bucket) *Publisher {
	return &Publisher{bucket: bucket}
}

// Close closes the underlying bucket.
func (p *Publisher) Close() error {
	return p.bucket.Close()
}

// Publish uploads localPath under key and returns the key used.
// An empty key is replaced by "collages/<uuid><ext>".
func (p *Publisher) Publish(ctx context.Context, localPath, key string) (string, error) {
	ext := filepath.Ext(localPath)
	if key == "" {
		key = path.Join(KeyPrefix, uuid.NewString()+ext)
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w, err := p.bucket.NewWriter(ctx, key, &blob.WriterOptions{
		ContentType: mime.TypeByExtension(ext),
	})
	if err != nil {
		return "", fmt.Errorf("create object %s: %w", key, err)
	}

	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	return key, nil
}

// ObjectURL joins key onto bucketURL, keeping any driver query parameters.
//
//	ObjectURL("s3://bkt?region=eu-central-1", "collages/a.tif")
//	// s3://bkt/collages/a.tif?region=eu-central-1
func ObjectURL(bucketURL, key string) string {
	u, err := url.Parse(bucketURL)
	if err != nil {
		return bucketURL + "/" + key
	}
	u.Path = path.Join("/", u.Path, key)
	return u.String()
}
