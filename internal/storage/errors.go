package storage

import (
	"errors"
	"fmt"
)

// ErrUnknownProvider is returned when the configured provider is not supported
var ErrUnknownProvider = errors.New("unknown storage provider")

// UploadError wraps a failed object write with the bucket and key involved.
// The message of the underlying transport error is preserved.
type UploadError struct {
	Op     string
	Bucket string
	Key    string
	Err    error
}

func (e *UploadError) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("storage.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("storage.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	return fmt.Sprintf("storage.%s: %v", e.Op, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

func newUploadError(op, bucket, key string, err error) *UploadError {
	return &UploadError{
		Op:     op,
		Bucket: bucket,
		Key:    key,
		Err:    err,
	}
}
