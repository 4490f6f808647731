// Package storage provides the object storage service backing profile photo
// uploads, implemented against any S3-compatible endpoint.
package storage

import (
	"context"
	"io"
	"time"
)

// ServiceConfig holds the configuration required to connect to the storage backend.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// Service defines the public interface for the photo storage service.
type Service interface {
	// PresignUpload generates a pre-signed URL for a client-side photo upload.
	PresignUpload(
		ctx context.Context,
		key string,
		mimeType string,
		fileSize int64,
		duration time.Duration,
	) (string, error)

	// PresignDownload generates a pre-signed URL for fetching a stored photo.
	PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error)

	// Upload streams a photo into the bucket server-side and returns its key.
	Upload(ctx context.Context, key string, mimeType string, body io.Reader) error

	// Delete removes the object for the given key.
	Delete(ctx context.Context, key string) error
}

// NewService is the factory for Service. Only S3-compatible backends are supported.
func NewService(cfg ServiceConfig) (Service, error) {
	return newS3Client(cfg)
}
