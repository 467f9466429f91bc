package services

import (
	"context"

	"github.com/nexconsult/cnpj-upload/internal/models"
	"github.com/nexconsult/cnpj-upload/internal/session"
)

// UploadServiceInterface defines the validation and upload pipeline as seen
// by the HTTP handlers and the command line tool
type UploadServiceInterface interface {
	// Validate decodes and scans a file without touching any session
	Validate(fileName string, raw []byte) (*models.ValidationReport, error)

	// CreateSession starts a new upload session
	CreateSession(ctx context.Context) (*session.Session, error)

	// GetSession loads a session
	GetSession(ctx context.Context, id string) (*session.Session, error)

	// SubmitFile validates a file and keeps it in the session for confirmation
	SubmitFile(ctx context.Context, id, fileName string, raw []byte) (*session.Session, error)

	// ConfirmUpload uploads the pending file of a session
	ConfirmUpload(ctx context.Context, id string) (*models.UploadConfirmation, *session.Session, error)

	// ResetSession starts a new upload cycle
	ResetSession(ctx context.Context, id string) (*session.Session, error)

	// DeleteSession drops a session
	DeleteSession(ctx context.Context, id string) error
}

// MetricsServiceInterface defines the interface for metrics service
type MetricsServiceInterface interface {
	// RecordValidation records the outcome of a scanned file
	RecordValidation(report models.ValidationReport)

	// RecordDecodeError records a file that was not valid UTF-8
	RecordDecodeError()

	// RecordUpload records an upload attempt
	RecordUpload(success bool, size int64, durationMs float64)

	// RecordSession records a created session or a reset cycle
	RecordSession(reset bool)

	// GetMetrics returns current metrics
	GetMetrics() models.MetricsResponse
}
