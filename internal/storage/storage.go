// Package storage provides the cloud-blob input: a narrow fetch-by-bucket-
// and-key capability backed by Google Cloud Storage.
package storage

import (
	"context"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// BlobFetcher fetches object bytes by bucket and key. Implementations
// return an error on any failure; no retries happen at this layer.
type BlobFetcher interface {
	Fetch(ctx context.Context, bucket, object string) ([]byte, error)
}

// GCSFetcher implements BlobFetcher against Google Cloud Storage.
type GCSFetcher struct {
	client *gcs.Client
	logger *zap.Logger
}

// NewGCSFetcher builds a fetcher. When serviceAccountPath is non-empty the
// client authenticates with that service-account JSON file, otherwise it
// uses application default credentials.
func NewGCSFetcher(ctx context.Context, serviceAccountPath string, logger *zap.Logger) (*GCSFetcher, error) {
	var opts []option.ClientOption
	if serviceAccountPath != "" {
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create cloud storage client: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GCSFetcher{client: client, logger: logger}, nil
}

// Fetch downloads one object in full.
func (f *GCSFetcher) Fetch(ctx context.Context, bucket, object string) ([]byte, error) {
	rc, err := f.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open gs://%s/%s: %w", bucket, object, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read gs://%s/%s: %w", bucket, object, err)
	}

	f.logger.Debug("fetched scene blob",
		zap.String("bucket", bucket),
		zap.String("object", object),
		zap.Int("bytes", len(data)))
	return data, nil
}

// Close releases the underlying client.
func (f *GCSFetcher) Close() error {
	return f.client.Close()
}
