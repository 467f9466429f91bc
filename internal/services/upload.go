package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/cnpj-upload/internal/config"
	"github.com/nexconsult/cnpj-upload/internal/models"
	"github.com/nexconsult/cnpj-upload/internal/scanner"
	"github.com/nexconsult/cnpj-upload/internal/session"
	"github.com/nexconsult/cnpj-upload/internal/storage"
)

// Clock returns the current time
type Clock func() time.Time

// UploadService drives the validate, confirm and upload cycle of a session
type UploadService struct {
	config   config.UploadConfig
	store    session.Store
	uploader storage.Uploader
	metrics  MetricsServiceInterface
	logger   *logrus.Logger
	now      Clock
	locks    *keyedMutex
}

// UploadOption customizes an UploadService
type UploadOption func(*UploadService)

// WithClock replaces the wall clock used for timestamps and object names
func WithClock(clock Clock) UploadOption {
	return func(s *UploadService) {
		s.now = clock
	}
}

// NewUploadService creates a new upload service
func NewUploadService(
	cfg config.UploadConfig,
	store session.Store,
	uploader storage.Uploader,
	metrics MetricsServiceInterface,
	logger *logrus.Logger,
	opts ...UploadOption,
) *UploadService {
	s := &UploadService{
		config:   cfg,
		store:    store,
		uploader: uploader,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
		locks:    newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckFile rejects files by extension or size before their content is read
func (s *UploadService) CheckFile(fileName string, size int64) error {
	if len(s.config.AllowedExtensions) > 0 {
		ext := strings.ToLower(filepath.Ext(fileName))
		allowed := false
		for _, e := range s.config.AllowedExtensions {
			if strings.EqualFold(e, ext) {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
		}
	}

	if limit := s.config.MaxUploadBytes(); limit > 0 && size > limit {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, size, limit)
	}
	return nil
}

// Validate decodes and scans a file without touching any session
func (s *UploadService) Validate(fileName string, raw []byte) (*models.ValidationReport, error) {
	if err := s.CheckFile(fileName, int64(len(raw))); err != nil {
		return nil, err
	}

	content, err := scanner.Decode(raw)
	if err != nil {
		s.metrics.RecordDecodeError()
		return nil, err
	}

	report := scanner.Analyze(content)
	s.metrics.RecordValidation(report)

	s.logger.WithFields(logrus.Fields{
		"file":        fileName,
		"valid":       report.Valid,
		"total_lines": report.Summary.TotalLines,
		"valid_count": report.Summary.ValidCount,
	}).Info("File validated")

	return &report, nil
}

// CreateSession starts a new upload session
func (s *UploadService) CreateSession(ctx context.Context) (*session.Session, error) {
	sess := session.New(uuid.New().String(), s.now())
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	s.metrics.RecordSession(false)

	s.logger.WithField("session_id", sess.ID).Info("Session created")
	return sess, nil
}

// GetSession loads a session
func (s *UploadService) GetSession(ctx context.Context, id string) (*session.Session, error) {
	return s.store.Get(ctx, id)
}

// SubmitFile validates a file and keeps it in the session for confirmation.
// When the file has invalid lines the session is saved in VALIDATED_FAILED
// and ErrValidationFailed is returned along with it.
func (s *UploadService) SubmitFile(ctx context.Context, id, fileName string, raw []byte) (*session.Session, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Uploaded {
		return sess, ErrAlreadyUploaded
	}

	report, err := s.Validate(fileName, raw)
	if err != nil {
		return sess, err
	}

	now := s.now()
	if err := sess.Receive(fileName, raw, now); err != nil {
		return sess, err
	}
	if err := sess.Validated(*report, now); err != nil {
		return sess, err
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if !report.Valid {
		return sess, fmt.Errorf("%w: %d of %d lines", ErrValidationFailed, len(report.Errors), report.Summary.TotalLines)
	}
	return sess, nil
}

// ConfirmUpload uploads the pending file of a session. On failure the session
// stays in AWAITING_CONFIRM with the error recorded so the upload can be
// retried.
func (s *UploadService) ConfirmUpload(ctx context.Context, id string) (*models.UploadConfirmation, *session.Session, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if sess.Uploaded {
		return nil, sess, ErrAlreadyUploaded
	}
	if sess.State != session.StateAwaitingConfirm {
		return nil, sess, ErrNothingToUpload
	}
	if len(sess.Payload) == 0 && !s.config.AllowEmpty {
		return nil, sess, ErrEmptyFile
	}

	now := s.now()
	name := storage.DeriveName(sess.FileName, now.In(s.config.Location()))

	logger := s.logger.WithFields(logrus.Fields{
		"session_id": sess.ID,
		"file":       sess.FileName,
		"object":     name,
		"attempt":    sess.Attempts + 1,
		"checksum":   storage.Checksum(sess.Payload),
	})
	logger.Info("Uploading file")

	start := time.Now()
	confirmation, uploadErr := s.uploader.Upload(ctx, sess.Payload, name)
	elapsed := time.Since(start)

	if uploadErr != nil {
		s.metrics.RecordUpload(false, 0, 0)
		sess.UploadFailed(uploadErr, s.now())
		if err := s.store.Save(ctx, sess); err != nil {
			logger.WithError(err).Error("Failed to save session after upload error")
		}
		logger.WithError(uploadErr).Error("Upload failed")
		return nil, sess, uploadErr
	}

	size := int64(len(sess.Payload))
	if err := sess.UploadSucceeded(confirmation, s.now()); err != nil {
		return nil, sess, err
	}
	s.metrics.RecordUpload(true, size, float64(elapsed.Microseconds())/1000)
	if err := s.store.Save(ctx, sess); err != nil {
		return confirmation, sess, fmt.Errorf("failed to save session: %w", err)
	}

	logger.WithField("duration", elapsed).Info("Upload confirmed")
	return confirmation, sess, nil
}

// ResetSession starts a new upload cycle
func (s *UploadService) ResetSession(ctx context.Context, id string) (*session.Session, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sess.Reset(s.now()); err != nil {
		return sess, err
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	s.metrics.RecordSession(true)

	s.logger.WithFields(logrus.Fields{
		"session_id": sess.ID,
		"cycle":      sess.Cycle,
	}).Info("Session reset")
	return sess, nil
}

// DeleteSession drops a session
func (s *UploadService) DeleteSession(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}
