package storage

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/cnpj-upload/internal/config"
	"github.com/nexconsult/cnpj-upload/internal/models"
)

// s3API is the subset of the S3 client used by the uploader
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Uploader uploads objects with aws-sdk-go-v2. Credentials come from the
// default AWS chain (environment, shared config, instance role).
type S3Uploader struct {
	client  s3API
	cfg     config.StorageConfig
	logger  *logrus.Logger
	nowFunc func() time.Time
}

// NewS3Uploader creates an S3 uploader from the ambient AWS configuration
func NewS3Uploader(ctx context.Context, cfg config.StorageConfig, logger *logrus.Logger) (*S3Uploader, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.MaxRetries > 0 {
		loadOpts = append(loadOpts, awsconfig.WithRetryMaxAttempts(cfg.MaxRetries))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, newUploadError("init", cfg.Bucket, "", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}
	if cfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}
	if cfg.Timeout > 0 {
		httpClient := &http.Client{Timeout: cfg.Timeout}
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	}

	return newS3Uploader(s3.NewFromConfig(awsCfg, s3Opts...), cfg, logger), nil
}

func newS3Uploader(client s3API, cfg config.StorageConfig, logger *logrus.Logger) *S3Uploader {
	return &S3Uploader{
		client:  client,
		cfg:     cfg,
		logger:  logger,
		nowFunc: time.Now,
	}
}

// Upload writes payload to bucket/folder+destinationName
func (u *S3Uploader) Upload(ctx context.Context, payload []byte, destinationName string) (*models.UploadConfirmation, error) {
	start := time.Now()
	record := newRecord(u.cfg, payload, destinationName)
	key := ObjectPath(record.Folder, record.DestinationName)
	contentType := ContentType(record.Payload)
	checksum := Checksum(record.Payload)

	ctx, cancel := withTimeout(ctx, u.cfg.Timeout)
	defer cancel()

	output, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(record.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(record.Payload),
		ContentLength: aws.Int64(int64(len(record.Payload))),
		ContentType:   aws.String(contentType),
		Metadata: map[string]string{
			"checksum-xxh64": checksum,
		},
	})
	if err != nil {
		return nil, newUploadError("upload", record.Bucket, key, err)
	}

	confirmation := confirm(config.ProviderS3, record, contentType, checksum, aws.ToString(output.ETag), u.nowFunc())

	logUpload(u.logger, confirmation, time.Since(start))
	return confirmation, nil
}

// Ping checks that the bucket exists and is accessible
func (u *S3Uploader) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, u.cfg.Timeout)
	defer cancel()

	if _, err := u.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(u.cfg.Bucket)}); err != nil {
		return newUploadError("ping", u.cfg.Bucket, "", err)
	}
	return nil
}

// Provider returns "s3"
func (u *S3Uploader) Provider() string { return config.ProviderS3 }

// Bucket returns the destination bucket
func (u *S3Uploader) Bucket() string { return u.cfg.Bucket }

// Folder returns the destination folder prefix
func (u *S3Uploader) Folder() string { return u.cfg.Folder }
