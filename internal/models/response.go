package models

import (
	"time"
)

// Error codes returned by the API
const (
	ErrorCodeInvalidRequest   = "INVALID_REQUEST"
	ErrorCodeInvalidFile      = "INVALID_FILE"
	ErrorCodeFileTooLarge     = "FILE_TOO_LARGE"
	ErrorCodeDecodeError      = "DECODE_ERROR"
	ErrorCodeValidationFailed = "VALIDATION_FAILED"
	ErrorCodeEmptyFile        = "EMPTY_FILE"
	ErrorCodeSessionNotFound  = "SESSION_NOT_FOUND"
	ErrorCodeAlreadyUploaded  = "ALREADY_UPLOADED"
	ErrorCodeNothingToUpload  = "NOTHING_TO_UPLOAD"
	ErrorCodeInvalidState     = "INVALID_STATE"
	ErrorCodeUploadFailed     = "UPLOAD_FAILED"
	ErrorCodeInternalError    = "INTERNAL_ERROR"
	ErrorCodeRateLimit        = "RATE_LIMIT_EXCEEDED"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string      `json:"error" example:"Validation failed"`
	Message   string      `json:"message" example:"The file contains lines that are not valid CNPJs"`
	Code      string      `json:"code,omitempty" example:"VALIDATION_FAILED"`
	Details   interface{} `json:"details,omitempty"`
	Timestamp time.Time   `json:"timestamp" example:"2024-01-15T10:30:00Z"`
	Path      string      `json:"path" example:"/api/v1/validate"`
}

// ValidationResponse is returned by the validation endpoints
type ValidationResponse struct {
	FileName string           `json:"file_name" example:"cnpjs.txt"`
	Report   ValidationReport `json:"report"`
	Message  string           `json:"message" example:"O arquivo contém 2 CNPJs válidos em 3 linhas."`
	Session  *SessionView     `json:"session,omitempty"`
}

// UploadResponse is returned after a confirmed upload
type UploadResponse struct {
	Message      string             `json:"message" example:"Arquivo enviado com sucesso"`
	Confirmation UploadConfirmation `json:"confirmation"`
	Session      *SessionView       `json:"session,omitempty"`
}

// SessionView is the public representation of an upload session
type SessionView struct {
	ID         string              `json:"id" example:"6f1c2b1e-1d9e-4a57-9d8c-1f0e2a3b4c5d"`
	State      string              `json:"state" example:"AWAITING_CONFIRM"`
	Uploaded   bool                `json:"uploaded" example:"false"`
	Cycle      int                 `json:"cycle" example:"1"`
	FileName   string              `json:"file_name,omitempty" example:"cnpjs.txt"`
	Report     *ValidationReport   `json:"report,omitempty"`
	Attempts   int                 `json:"attempts" example:"0"`
	LastError  string              `json:"last_error,omitempty"`
	LastUpload *UploadConfirmation `json:"last_upload,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string                 `json:"status" example:"healthy"`
	Timestamp time.Time              `json:"timestamp" example:"2024-01-15T10:30:00Z"`
	Version   string                 `json:"version" example:"1.0.0"`
	Services  map[string]ServiceInfo `json:"services"`
	Uptime    string                 `json:"uptime" example:"2h30m45s"`
}

// ServiceInfo represents individual service health
type ServiceInfo struct {
	Status         string    `json:"status" example:"healthy"`
	LastCheck      time.Time `json:"last_check" example:"2024-01-15T10:30:00Z"`
	ResponseTimeMs int64     `json:"response_time_ms" example:"15"`
	Error          string    `json:"error,omitempty"`
}

// MetricsResponse represents metrics response
type MetricsResponse struct {
	Validations ValidationMetrics `json:"validations"`
	Uploads     UploadMetrics     `json:"uploads"`
	Sessions    SessionMetrics    `json:"sessions"`
	System      SystemMetrics     `json:"system"`
	Timestamp   time.Time         `json:"timestamp" example:"2024-01-15T10:30:00Z"`
}

// ValidationMetrics counts scanned files and lines
type ValidationMetrics struct {
	Files        int64 `json:"files" example:"120"`
	Passed       int64 `json:"passed" example:"110"`
	Failed       int64 `json:"failed" example:"10"`
	DecodeErrors int64 `json:"decode_errors" example:"1"`
	Lines        int64 `json:"lines" example:"53000"`
	InvalidLines int64 `json:"invalid_lines" example:"27"`
}

// UploadMetrics counts upload attempts
type UploadMetrics struct {
	Succeeded int64   `json:"succeeded" example:"100"`
	Failed    int64   `json:"failed" example:"2"`
	Bytes     int64   `json:"bytes" example:"1048576"`
	AvgMs     float64 `json:"avg_ms" example:"184.2"`
}

// SessionMetrics counts sessions handled since start
type SessionMetrics struct {
	Created int64 `json:"created" example:"130"`
	Resets  int64 `json:"resets" example:"95"`
}

// SystemMetrics represents system metrics
type SystemMetrics struct {
	MemoryUsage float64 `json:"memory_usage" example:"12.5"`
	Goroutines  int     `json:"goroutines" example:"12"`
}
