package blob

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// GCSStore persists objects to a Google Cloud Storage bucket and returns
// the public object URL. The bucket must grant public read for the
// returned URLs to resolve.
type GCSStore struct {
	bucket *storage.BucketHandle
	name   string
}

func NewGCSStore(ctx context.Context, bucketName string) (*GCSStore, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return &GCSStore{bucket: client.Bucket(bucketName), name: bucketName}, nil
}

func (s *GCSStore) Put(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	w := s.bucket.Object(name).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs upload: %w", err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.name, name), nil
}
