package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nexconsult/cnpj-upload/internal/models"
	"github.com/nexconsult/cnpj-upload/internal/scanner"
	"github.com/nexconsult/cnpj-upload/internal/services"
	"github.com/nexconsult/cnpj-upload/internal/session"
	"github.com/nexconsult/cnpj-upload/internal/storage"
)

type errorMapping struct {
	status int
	title  string
	code   string
}

var sentinelErrors = []struct {
	err error
	errorMapping
}{
	{session.ErrNotFound, errorMapping{http.StatusNotFound, "Session not found", models.ErrorCodeSessionNotFound}},
	{services.ErrAlreadyUploaded, errorMapping{http.StatusConflict, "File already uploaded", models.ErrorCodeAlreadyUploaded}},
	{services.ErrNothingToUpload, errorMapping{http.StatusConflict, "Nothing to upload", models.ErrorCodeNothingToUpload}},
	{session.ErrInvalidTransition, errorMapping{http.StatusConflict, "Invalid session state", models.ErrorCodeInvalidState}},
	{services.ErrEmptyFile, errorMapping{http.StatusUnprocessableEntity, "Empty file", models.ErrorCodeEmptyFile}},
	{services.ErrUnsupportedFile, errorMapping{http.StatusUnsupportedMediaType, "Unsupported file", models.ErrorCodeInvalidFile}},
	{services.ErrFileTooLarge, errorMapping{http.StatusRequestEntityTooLarge, "File too large", models.ErrorCodeFileTooLarge}},
}

// mapError translates a pipeline error into an HTTP status and error code
func mapError(err error) errorMapping {
	for _, s := range sentinelErrors {
		if errors.Is(err, s.err) {
			return s.errorMapping
		}
	}

	var decodeErr *scanner.DecodeError
	if errors.As(err, &decodeErr) {
		return errorMapping{http.StatusUnprocessableEntity, "Invalid file encoding", models.ErrorCodeDecodeError}
	}

	var uploadErr *storage.UploadError
	if errors.As(err, &uploadErr) {
		return errorMapping{http.StatusBadGateway, "Upload failed", models.ErrorCodeUploadFailed}
	}

	return errorMapping{http.StatusInternalServerError, "Internal server error", models.ErrorCodeInternalError}
}

// respondError writes err as an ErrorResponse. details is attached as is.
func respondError(c *gin.Context, err error, details interface{}) {
	m := mapError(err)

	message := err.Error()
	if m.status == http.StatusInternalServerError {
		message = "An unexpected error occurred while processing your request"
	}

	c.JSON(m.status, models.ErrorResponse{
		Error:     m.title,
		Message:   message,
		Code:      m.code,
		Details:   details,
		Timestamp: time.Now(),
		Path:      c.Request.URL.Path,
	})
}

func badRequest(c *gin.Context, code, title, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:     title,
		Message:   message,
		Code:      code,
		Timestamp: time.Now(),
		Path:      c.Request.URL.Path,
	})
}
