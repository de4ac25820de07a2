// Package filestore stores product media in Google Cloud Storage. It sits
// outside the caching contract entirely: media objects are immutable once
// written, addressed by id, and never cached by the key-value layer.
package filestore

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MediaStoreConfig holds configuration for product media storage.
type MediaStoreConfig struct {
	BucketName string
}

// MediaStore uploads and removes product media objects.
type MediaStore struct {
	bucket GCSBucketHandle
	logger zerolog.Logger
}

// NewMediaStore creates a MediaStore over an injected GCS client.
func NewMediaStore(cfg *MediaStoreConfig, client GCSClient, logger zerolog.Logger) (*MediaStore, error) {
	if client == nil {
		return nil, fmt.Errorf("gcs client cannot be nil")
	}
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("bucket name cannot be empty")
	}
	return &MediaStore{
		bucket: client.Bucket(cfg.BucketName),
		logger: logger.With().Str("component", "MediaStore").Str("bucket", cfg.BucketName).Logger(),
	}, nil
}

// objectName places media under its owning product:
// products/<productID>/<fileID>.
func objectName(productID, fileID string) string {
	return fmt.Sprintf("products/%s/%s", productID, fileID)
}

// Upload streams a media file into the bucket and returns the generated
// object name.
func (m *MediaStore) Upload(ctx context.Context, productID string, r io.Reader) (string, error) {
	name := objectName(productID, uuid.NewString())
	w := m.bucket.Object(name).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload media %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize media %s: %w", name, err)
	}
	m.logger.Debug().Str("object", name).Msg("Media uploaded.")
	return name, nil
}

// Open returns a reader over a stored media object.
func (m *MediaStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	r, err := m.bucket.Object(name).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open media %s: %w", name, err)
	}
	return r, nil
}

// Delete removes a stored media object.
func (m *MediaStore) Delete(ctx context.Context, name string) error {
	if err := m.bucket.Object(name).Delete(ctx); err != nil {
		return fmt.Errorf("delete media %s: %w", name, err)
	}
	m.logger.Debug().Str("object", name).Msg("Media deleted.")
	return nil
}
