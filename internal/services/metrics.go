package services

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/nexconsult/cnpj-upload/internal/models"
)

// Metrics keeps in-process counters since startup
type Metrics struct {
	files        atomic.Int64
	passed       atomic.Int64
	failed       atomic.Int64
	decodeErrors atomic.Int64
	lines        atomic.Int64
	invalidLines atomic.Int64

	uploadsOK     atomic.Int64
	uploadsFailed atomic.Int64
	uploadBytes   atomic.Int64
	uploadMicros  atomic.Int64

	sessionsCreated atomic.Int64
	sessionResets   atomic.Int64
}

// NewMetrics creates an empty metrics registry
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordValidation records the outcome of a scanned file
func (m *Metrics) RecordValidation(report models.ValidationReport) {
	m.files.Add(1)
	if report.Valid {
		m.passed.Add(1)
	} else {
		m.failed.Add(1)
	}
	m.lines.Add(int64(report.Summary.TotalLines))
	m.invalidLines.Add(int64(len(report.Errors)))
}

// RecordDecodeError records a file that was not valid UTF-8
func (m *Metrics) RecordDecodeError() {
	m.decodeErrors.Add(1)
}

// RecordUpload records an upload attempt
func (m *Metrics) RecordUpload(success bool, size int64, durationMs float64) {
	if !success {
		m.uploadsFailed.Add(1)
		return
	}
	m.uploadsOK.Add(1)
	m.uploadBytes.Add(size)
	m.uploadMicros.Add(int64(durationMs * 1000))
}

// RecordSession records a created session or a reset cycle
func (m *Metrics) RecordSession(reset bool) {
	if reset {
		m.sessionResets.Add(1)
		return
	}
	m.sessionsCreated.Add(1)
}

// GetMetrics returns current metrics
func (m *Metrics) GetMetrics() models.MetricsResponse {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	uploads := models.UploadMetrics{
		Succeeded: m.uploadsOK.Load(),
		Failed:    m.uploadsFailed.Load(),
		Bytes:     m.uploadBytes.Load(),
	}
	if uploads.Succeeded > 0 {
		uploads.AvgMs = float64(m.uploadMicros.Load()) / 1000 / float64(uploads.Succeeded)
	}

	return models.MetricsResponse{
		Validations: models.ValidationMetrics{
			Files:        m.files.Load(),
			Passed:       m.passed.Load(),
			Failed:       m.failed.Load(),
			DecodeErrors: m.decodeErrors.Load(),
			Lines:        m.lines.Load(),
			InvalidLines: m.invalidLines.Load(),
		},
		Uploads: uploads,
		Sessions: models.SessionMetrics{
			Created: m.sessionsCreated.Load(),
			Resets:  m.sessionResets.Load(),
		},
		System: models.SystemMetrics{
			MemoryUsage: float64(mem.Alloc) / 1024 / 1024, // MB
			Goroutines:  runtime.NumGoroutine(),
		},
		Timestamp: time.Now(),
	}
}
