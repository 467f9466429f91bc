package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/cnpj-upload/internal/config"
	"github.com/nexconsult/cnpj-upload/internal/models"
)

// errBucketMissing is reported by Ping when the bucket does not exist
var errBucketMissing = errors.New("bucket does not exist")

// minioAPI is the subset of the MinIO client used by the uploader
type minioAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
}

// MinioUploader uploads objects to any S3-compatible service through minio-go
type MinioUploader struct {
	client  minioAPI
	cfg     config.StorageConfig
	logger  *logrus.Logger
	nowFunc func() time.Time
}

// NewMinioUploader creates a MinIO uploader. Static keys are used when
// configured, otherwise credentials are read from the environment.
func NewMinioUploader(cfg config.StorageConfig, logger *logrus.Logger) (*MinioUploader, error) {
	var creds *credentials.Credentials
	if cfg.AccessKey != "" {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	} else {
		creds = credentials.NewChainCredentials([]credentials.Provider{
			&credentials.EnvAWS{},
			&credentials.EnvMinio{},
		})
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:      creds,
		Secure:     cfg.UseSSL,
		Region:     cfg.Region,
		MaxRetries: cfg.MaxRetries,
	})
	if err != nil {
		return nil, newUploadError("init", cfg.Bucket, "", err)
	}

	return newMinioUploader(client, cfg, logger), nil
}

func newMinioUploader(client minioAPI, cfg config.StorageConfig, logger *logrus.Logger) *MinioUploader {
	return &MinioUploader{
		client:  client,
		cfg:     cfg,
		logger:  logger,
		nowFunc: time.Now,
	}
}

// Upload writes payload to bucket/folder+destinationName
func (u *MinioUploader) Upload(ctx context.Context, payload []byte, destinationName string) (*models.UploadConfirmation, error) {
	start := time.Now()
	record := newRecord(u.cfg, payload, destinationName)
	key := ObjectPath(record.Folder, record.DestinationName)
	contentType := ContentType(record.Payload)
	checksum := Checksum(record.Payload)

	ctx, cancel := withTimeout(ctx, u.cfg.Timeout)
	defer cancel()

	info, err := u.client.PutObject(ctx, record.Bucket, key, bytes.NewReader(record.Payload), int64(len(record.Payload)), minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"checksum-xxh64": checksum,
		},
	})
	if err != nil {
		return nil, newUploadError("upload", record.Bucket, key, err)
	}

	confirmation := confirm(config.ProviderMinio, record, contentType, checksum, info.ETag, u.nowFunc())

	logUpload(u.logger, confirmation, time.Since(start))
	return confirmation, nil
}

// Ping checks that the bucket exists
func (u *MinioUploader) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, u.cfg.Timeout)
	defer cancel()

	exists, err := u.client.BucketExists(ctx, u.cfg.Bucket)
	if err != nil {
		return newUploadError("ping", u.cfg.Bucket, "", err)
	}
	if !exists {
		return newUploadError("ping", u.cfg.Bucket, "", fmt.Errorf("%w: %s", errBucketMissing, u.cfg.Bucket))
	}
	return nil
}

// Provider returns "minio"
func (u *MinioUploader) Provider() string { return config.ProviderMinio }

// Bucket returns the destination bucket
func (u *MinioUploader) Bucket() string { return u.cfg.Bucket }

// Folder returns the destination folder prefix
func (u *MinioUploader) Folder() string { return u.cfg.Folder }
