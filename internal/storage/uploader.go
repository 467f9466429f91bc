// Package storage writes validated files to object storage.
//
// Two providers are available, an S3 client built on aws-sdk-go-v2 and a
// MinIO client for S3-compatible services. Both write one object per upload
// under a fixed bucket and folder prefix; there is no multipart or resumable
// transfer and no retry beyond what the SDK client is configured with.
package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/cnpj-upload/internal/config"
	"github.com/nexconsult/cnpj-upload/internal/models"
)

// Uploader stores a payload under the configured bucket and folder
type Uploader interface {
	// Upload writes payload as the full content of folder+destinationName,
	// creating or overwriting exactly one object
	Upload(ctx context.Context, payload []byte, destinationName string) (*models.UploadConfirmation, error)

	// Ping checks that the bucket is reachable with the current credentials
	Ping(ctx context.Context) error

	// Provider returns the provider name
	Provider() string

	// Bucket returns the destination bucket
	Bucket() string

	// Folder returns the destination folder prefix
	Folder() string
}

// New creates the uploader selected by cfg.Provider
func New(ctx context.Context, cfg config.StorageConfig, logger *logrus.Logger) (Uploader, error) {
	switch cfg.Provider {
	case config.ProviderS3:
		return NewS3Uploader(ctx, cfg, logger)
	case config.ProviderMinio:
		return NewMinioUploader(cfg, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// Checksum returns the hex encoded xxhash64 of payload
func Checksum(payload []byte) string {
	return strconv.FormatUint(xxhash.Sum64(payload), 16)
}

// ContentType detects the MIME type of payload
func ContentType(payload []byte) string {
	return mimetype.Detect(payload).String()
}

// newRecord describes the single object write of an upload
func newRecord(cfg config.StorageConfig, payload []byte, destinationName string) models.UploadRecord {
	return models.UploadRecord{
		DestinationName: destinationName,
		Bucket:          cfg.Bucket,
		Folder:          cfg.Folder,
		Payload:         payload,
	}
}

func confirm(provider string, record models.UploadRecord, contentType, checksum, etag string, uploadedAt time.Time) *models.UploadConfirmation {
	return &models.UploadConfirmation{
		Provider:    provider,
		Bucket:      record.Bucket,
		ObjectPath:  ObjectPath(record.Folder, record.DestinationName),
		Name:        record.DestinationName,
		Size:        int64(len(record.Payload)),
		ContentType: contentType,
		ETag:        etag,
		Checksum:    checksum,
		UploadedAt:  uploadedAt,
	}
}

// withTimeout bounds a transport call when a timeout is configured
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func logUpload(logger *logrus.Logger, confirmation *models.UploadConfirmation, duration time.Duration) {
	logger.WithFields(logrus.Fields{
		"provider":     confirmation.Provider,
		"bucket":       confirmation.Bucket,
		"object":       confirmation.ObjectPath,
		"size":         confirmation.Size,
		"content_type": confirmation.ContentType,
		"checksum":     confirmation.Checksum,
		"duration":     duration,
	}).Info("Object uploaded")
}
